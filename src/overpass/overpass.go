// Package overpass builds Overpass QL query URLs for point-of-interest
// categories around a coordinate.
package overpass

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// node filter expressions per category; each is wrapped into
// [out:json];(node<filter>(around:radius,lat,lon););out limit;
var categoryFilters = map[string][]string{
	// Food & drink
	"restaurants": {`["amenity"="restaurant"]`},
	"fast_food":   {`["amenity"="fast_food"]`},
	"cafes":       {`["amenity"="cafe"]`},
	"bars":        {`["amenity"~"^(bar|pub)$"]`},
	"nightlife":   {`["amenity"~"^(bar|pub|nightclub|biergarten)$"]`},

	// Attractions & tourism
	"attractions": {`["tourism"~"^(attraction|museum|monument|artwork|viewpoint)$"]`},
	"museums":     {`["tourism"="museum"]`},
	"monuments":   {`["historic"~"^(monument|memorial)$"]`},
	"parks":       {`["leisure"~"^(park|garden)$"]`},
	"viewpoints":  {`["tourism"="viewpoint"]`},
	"religious":   {`["amenity"="place_of_worship"]`},
	"historic":    {`["historic"]`},

	// Accommodation
	"hotels":        {`["tourism"="hotel"]`},
	"hostels":       {`["tourism"="hostel"]`},
	"accommodation": {`["tourism"~"^(hotel|hostel|guest_house|apartment)$"]`},

	// Shopping
	"shopping":     {`["shop"]`},
	"malls":        {`["shop"="mall"]`},
	"markets":      {`["amenity"="marketplace"]`},
	"supermarkets": {`["shop"="supermarket"]`},

	// Transport
	"transport": {`["public_transport"~"^(station|stop_position)$"]`},
	"stations":  {`["railway"="station"]`},
	"airports":  {`["aeroway"="aerodrome"]`},

	// Services
	"healthcare":   {`["amenity"~"^(hospital|clinic|pharmacy)$"]`},
	"banks":        {`["amenity"~"^(bank|atm)$"]`},
	"gas_stations": {`["amenity"="fuel"]`},

	// Everything at once
	"all_pois": {
		`["amenity"~"^(restaurant|cafe|bar|hotel)$"]`,
		`["tourism"~"^(attraction|museum|monument)$"]`,
		`["shop"~"^(mall|supermarket)$"]`,
		`["leisure"~"^(park|garden)$"]`,
	},
}

// UnknownCategoryError reports an unsupported POI category together with the
// supported set, so callers can surface the list to the user.
type UnknownCategoryError struct {
	Category  string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("overpass: unknown POI category %q (available: %s)", e.Category, strings.Join(e.Available, ", "))
}

// Categories returns the supported POI categories, sorted.
func Categories() []string {
	out := make([]string, 0, len(categoryFilters))
	for name := range categoryFilters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// QueryURL returns a complete Overpass interpreter URL for the category
// around (lat, lon). radius is in meters.
func QueryURL(category string, lat, lon float64, radius, limit int) (string, error) {
	query, err := Query(category, lat, lon, radius, limit)
	if err != nil {
		return "", err
	}
	return DefaultEndpoint + "?data=" + query, nil
}

// Query returns the bare Overpass QL text for the category around (lat, lon).
func Query(category string, lat, lon float64, radius, limit int) (string, error) {
	filters, ok := categoryFilters[category]
	if !ok {
		return "", &UnknownCategoryError{Category: category, Available: Categories()}
	}

	var b strings.Builder
	b.WriteString("[out:json];(")
	for _, filter := range filters {
		fmt.Fprintf(&b, "node%s(around:%d,%g,%g);", filter, radius, lat, lon)
	}
	fmt.Fprintf(&b, ");out %d;", limit)
	return b.String(), nil
}
