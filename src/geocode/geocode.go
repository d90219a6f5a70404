// Package geocode resolves location names to coordinates via Nominatim,
// memoizing successful lookups for the life of the process.
package geocode

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/roamstack/travel-concierge/src/webclient"
)

const DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

// Coords is a latitude/longitude pair.
type Coords struct {
	Lat float64
	Lon float64
}

// Resolver looks up coordinates with an append-only in-memory cache keyed by
// the case-folded location string. The cache has no TTL or eviction; the
// location vocabulary is bounded by user input within one process lifetime.
type Resolver struct {
	fetcher  *webclient.Fetcher
	endpoint string

	mu    sync.RWMutex
	cache map[string]Coords
}

// NewResolver builds a resolver against the given fetcher. An empty endpoint
// selects the public Nominatim instance.
func NewResolver(fetcher *webclient.Fetcher, endpoint string) *Resolver {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Resolver{
		fetcher:  fetcher,
		endpoint: endpoint,
		cache:    make(map[string]Coords),
	}
}

// Lookup returns coordinates for a location name. Cache hits bypass the
// network entirely. A failed lookup is reported as ok=false and is not
// cached, so a later call may still succeed.
func (r *Resolver) Lookup(ctx context.Context, location string) (Coords, bool) {
	key := strings.ToLower(location)

	r.mu.RLock()
	coords, hit := r.cache[key]
	r.mu.RUnlock()
	if hit {
		return coords, true
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("limit", "1")

	body := r.fetcher.GetJSON(ctx, r.endpoint, params)
	if body == nil {
		return Coords{}, false
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return Coords{}, false
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		log.Printf("geocode: invalid coordinates for %q: lat=%q lon=%q", location, results[0].Lat, results[0].Lon)
		return Coords{}, false
	}

	coords = Coords{Lat: lat, Lon: lon}
	r.mu.Lock()
	r.cache[key] = coords
	r.mu.Unlock()
	return coords, true
}
