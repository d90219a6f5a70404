package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roamstack/travel-concierge/src/overpass"
)

const maxHolidaysShown = 15

// PublicHolidays lists the official public holidays for a country and year.
func (s *Service) PublicHolidays(ctx context.Context, year int, countryCode string) string {
	raw := s.fetch.GetJSON(ctx, fmt.Sprintf("%s/PublicHolidays/%d/%s", s.eps.Holidays, year, countryCode), nil)
	if raw == nil {
		return fmt.Sprintf("The public holidays API is not working for %s in %d.", countryCode, year)
	}

	var holidays []struct {
		Date      string `json:"date"`
		Name      string `json:"name"`
		LocalName string `json:"localName"`
	}
	if err := json.Unmarshal(raw, &holidays); err != nil {
		return fmt.Sprintf("The public holidays API is not working for %s in %d.", countryCode, year)
	}
	if len(holidays) == 0 {
		return fmt.Sprintf("No public holidays were found for %s in %d.", countryCode, year)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sPublic holidays in %s for %d:\n\n", summaryPreamble, countryCode, year)
	shown := holidays
	if len(shown) > maxHolidaysShown {
		shown = shown[:maxHolidaysShown]
	}
	for _, h := range shown {
		name := orUnknown(h.Name)
		fmt.Fprintf(&b, "%s: %s", orUnknown(h.Date), name)
		if h.LocalName != "" && h.LocalName != name {
			fmt.Fprintf(&b, " (%s)", h.LocalName)
		}
		b.WriteString("\n")
	}
	if len(holidays) > maxHolidaysShown {
		fmt.Fprintf(&b, "\n... and %d more holidays", len(holidays)-maxHolidaysShown)
	}
	return b.String()
}

// WeatherByLocation geocodes the location and returns its forecast.
func (s *Service) WeatherByLocation(ctx context.Context, location string, days int) string {
	coords, ok := s.geo.Lookup(ctx, location)
	if !ok {
		return "Unable to find coordinates for location: " + location
	}
	return s.weatherForecast(ctx, coords.Lat, coords.Lon, days)
}

func (s *Service) weatherForecast(ctx context.Context, lat, lon float64, days int) string {
	if days < 1 {
		days = 7
	}
	if days > 16 {
		days = 16
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,windspeed_10m_max")
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))

	raw := s.fetch.GetJSON(ctx, s.eps.Weather+"/forecast", params)
	if raw == nil {
		return fmt.Sprintf("Unable to fetch weather data for coordinates (%g, %g).", lat, lon)
	}

	var data struct {
		CurrentWeather *struct {
			Time        string   `json:"time"`
			Temperature *float64 `json:"temperature"`
			WindSpeed   *float64 `json:"windspeed"`
			WeatherCode *int     `json:"weathercode"`
		} `json:"current_weather"`
		Daily struct {
			Time      []string  `json:"time"`
			TempMax   []float64 `json:"temperature_2m_max"`
			TempMin   []float64 `json:"temperature_2m_min"`
			PrecipMax []float64 `json:"precipitation_probability_max"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Sprintf("Unable to fetch weather data for coordinates (%g, %g).", lat, lon)
	}

	var b strings.Builder
	b.WriteString(summaryPreamble + "Weather Forecast:\n\n")

	if cw := data.CurrentWeather; cw != nil {
		fmt.Fprintf(&b, "Current Weather (%s):\n", orUnknown(cw.Time))
		fmt.Fprintf(&b, "   Temperature: %s°C\n", floatOrUnknown(cw.Temperature))
		fmt.Fprintf(&b, "   Wind Speed: %s km/h\n", floatOrUnknown(cw.WindSpeed))
		fmt.Fprintf(&b, "   Weather Code: %s\n\n", intOrUnknown(cw.WeatherCode))
	}

	if len(data.Daily.Time) > 0 {
		b.WriteString("Daily Forecast:\n")
		rows := len(data.Daily.Time)
		if rows > 7 {
			rows = 7
		}
		for i := 0; i < rows; i++ {
			minT, maxT, prob := "Unknown", "Unknown", "Unknown"
			if i < len(data.Daily.TempMin) {
				minT = formatFloat(data.Daily.TempMin[i])
			}
			if i < len(data.Daily.TempMax) {
				maxT = formatFloat(data.Daily.TempMax[i])
			}
			if i < len(data.Daily.PrecipMax) {
				prob = formatFloat(data.Daily.PrecipMax[i])
			}
			fmt.Fprintf(&b, "   %s: %s°C - %s°C, %s%% rain chance\n", data.Daily.Time[i], minT, maxT, prob)
		}
	}

	return b.String()
}

type countryRecord struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2       string            `json:"cca2"`
	Capital    []string          `json:"capital"`
	Region     string            `json:"region"`
	Subregion  string            `json:"subregion"`
	Population int64             `json:"population"`
	Languages  map[string]string `json:"languages"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	LatLng    []float64 `json:"latlng"`
	Timezones []string  `json:"timezones"`
	Flag      string    `json:"flag"`
}

func (s *Service) lookupCountry(ctx context.Context, countryName string) (countryRecord, bool) {
	raw := s.fetch.GetJSON(ctx, s.eps.Countries+"/name/"+url.PathEscape(countryName), nil)
	if raw == nil {
		return countryRecord{}, false
	}
	var records []countryRecord
	if err := json.Unmarshal(raw, &records); err != nil || len(records) == 0 {
		return countryRecord{}, false
	}
	return records[0], true
}

// CountryInfo returns name, capital, demographics, languages, currencies,
// coordinates and time zones for a country.
func (s *Service) CountryInfo(ctx context.Context, countryName string) string {
	country, ok := s.lookupCountry(ctx, countryName)
	if !ok {
		return "Unable to fetch information for country: " + countryName
	}

	common := country.Name.Common
	if common == "" {
		common = countryName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sCountry Information: %s\n\n", summaryPreamble, common)
	fmt.Fprintf(&b, "Official Name: %s\n", orUnknown(country.Name.Official))
	capital := "Unknown"
	if len(country.Capital) > 0 {
		capital = country.Capital[0]
	}
	fmt.Fprintf(&b, "Capital: %s\n", capital)
	fmt.Fprintf(&b, "Region: %s", orUnknown(country.Region))
	if country.Subregion != "" {
		fmt.Fprintf(&b, " (%s)", country.Subregion)
	}
	fmt.Fprintf(&b, "\nPopulation: %s\n", groupDigits(country.Population))

	if len(country.Languages) > 0 {
		langs := make([]string, 0, len(country.Languages))
		for _, lang := range country.Languages {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(langs, ", "))
	}

	if len(country.Currencies) > 0 {
		codes := make([]string, 0, len(country.Currencies))
		for code := range country.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		entries := make([]string, 0, len(codes))
		for _, code := range codes {
			info := country.Currencies[code]
			name := info.Name
			if name == "" {
				name = code
			}
			entry := fmt.Sprintf("%s (%s)", name, code)
			if info.Symbol != "" {
				entry += " " + info.Symbol
			}
			entries = append(entries, entry)
		}
		fmt.Fprintf(&b, "Currencies: %s\n", strings.Join(entries, ", "))
	}

	if len(country.LatLng) >= 2 {
		fmt.Fprintf(&b, "Coordinates: %g, %g\n", country.LatLng[0], country.LatLng[1])
	}
	if len(country.Timezones) > 0 {
		fmt.Fprintf(&b, "Time Zones: %s\n", strings.Join(country.Timezones, ", "))
	}
	if country.Flag != "" {
		fmt.Fprintf(&b, "Flag: %s\n", country.Flag)
	}

	return b.String()
}

// SearchPOI finds points of interest of one category around a location.
func (s *Service) SearchPOI(ctx context.Context, location, poiType string, limit, radius int) string {
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if radius < 1 {
		radius = 10000
	}
	if radius > 50000 {
		radius = 50000
	}

	coords, ok := s.geo.Lookup(ctx, location)
	if !ok {
		return "Unable to find coordinates for location: " + location
	}

	query, err := overpass.Query(poiType, coords.Lat, coords.Lon, radius, limit)
	if err != nil {
		return fmt.Sprintf("Invalid POI type: %s. Available types: %s", poiType, strings.Join(overpass.Categories(), ", "))
	}

	params := url.Values{}
	params.Set("data", query)
	raw := s.fetch.GetJSON(ctx, s.eps.Overpass, params)
	if raw == nil {
		return fmt.Sprintf("Unable to fetch POI data for %s.", location)
	}

	var data struct {
		Elements []struct {
			Type string            `json:"type"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.Elements == nil {
		return fmt.Sprintf("Unable to fetch POI data for %s.", location)
	}
	if len(data.Elements) == 0 {
		return fmt.Sprintf("No %s POIs found in %s.", poiType, location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sPoints of Interest (%s) in %s:\n\n", summaryPreamble, poiType, location)

	count := 0
	for _, el := range data.Elements {
		if count >= limit {
			break
		}
		if el.Type != "node" || len(el.Tags) == 0 {
			continue
		}
		tags := el.Tags
		name := tags["name"]
		if name == "" {
			name = tags["tourism"]
		}
		if name == "" {
			name = "Unnamed POI"
		}

		fmt.Fprintf(&b, "%s\n", name)
		if v := tags["website"]; v != "" {
			fmt.Fprintf(&b, "   Website: %s\n", v)
		}
		if v := tags["phone"]; v != "" {
			fmt.Fprintf(&b, "   Phone: %s\n", v)
		}
		if v := tags["opening_hours"]; v != "" {
			fmt.Fprintf(&b, "   Hours: %s\n", v)
		}
		if v := tags["cuisine"]; v != "" {
			fmt.Fprintf(&b, "   Cuisine: %s\n", v)
		}
		if v := tags["addr:street"]; v != "" {
			fmt.Fprintf(&b, "   Address: %s %s\n", tags["addr:housenumber"], v)
		}
		if v := tags["brand"]; v != "" {
			fmt.Fprintf(&b, "   Brand: %s\n", v)
		}
		if v := tags["stars"]; v != "" {
			fmt.Fprintf(&b, "   Rating: %s stars\n", v)
		}
		b.WriteString("\n")
		count++
	}

	if len(data.Elements) > limit {
		fmt.Fprintf(&b, "... and %d more POIs", len(data.Elements)-limit)
	}

	return b.String()
}

// ConvertCurrency converts amount between two currency codes at the current
// exchange rate.
func (s *Service) ConvertCurrency(ctx context.Context, amount float64, fromCurrency, toCurrency string) string {
	raw := s.fetch.GetJSON(ctx, s.eps.Exchange+"/latest/"+url.PathEscape(fromCurrency), nil)
	if raw == nil {
		return fmt.Sprintf("Unable to fetch exchange rates for %s.", fromCurrency)
	}

	var data struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Sprintf("Unable to fetch exchange rates for %s.", fromCurrency)
	}

	rate, ok := data.Rates[toCurrency]
	if !ok {
		return fmt.Sprintf("Currency %s not found in exchange rates.", toCurrency)
	}

	return fmt.Sprintf("%sCurrency Conversion:\n%g %s = %.2f %s\n(Exchange rate: 1 %s = %.4f %s)",
		summaryPreamble, amount, fromCurrency, amount*rate, toCurrency, fromCurrency, rate, toCurrency)
}

// TravelSummaryForCountry composes country info, forecast, attractions and
// holidays into one overview. Sections that fail carry their own diagnostic
// text; the summary is produced regardless.
func (s *Service) TravelSummaryForCountry(ctx context.Context, countryName string) string {
	return s.travelSummary(ctx, countryName, countryName)
}

// TravelSummaryForCity is TravelSummaryForCountry scoped to one city; country
// info and holidays still come from the surrounding country.
func (s *Service) TravelSummaryForCity(ctx context.Context, cityName, countryName string) string {
	return s.travelSummary(ctx, cityName, countryName)
}

func (s *Service) travelSummary(ctx context.Context, place, countryName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sTravel Summary for %s:\n%s\n\n", summaryPreamble, place, strings.Repeat("=", 50))

	b.WriteString(s.CountryInfo(ctx, countryName) + "\n\n")
	b.WriteString(s.WeatherByLocation(ctx, place, 5) + "\n\n")
	b.WriteString(s.SearchPOI(ctx, place, "attractions", 5, 10000) + "\n\n")

	if country, ok := s.lookupCountry(ctx, countryName); ok && country.CCA2 != "" {
		b.WriteString(s.PublicHolidays(ctx, time.Now().Year(), country.CCA2) + "\n\n")
	}

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func floatOrUnknown(v *float64) string {
	if v == nil {
		return "Unknown"
	}
	return formatFloat(*v)
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "Unknown"
	}
	return strconv.Itoa(*v)
}

// groupDigits renders n with thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
