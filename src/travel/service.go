// Package travel implements the capability provider's lookup tools: weather,
// country data, points of interest, currency conversion, public holidays and
// composite travel summaries. Every tool returns text and degrades to an
// explanatory message when a lookup fails.
package travel

import (
	"github.com/roamstack/travel-concierge/src/geocode"
	"github.com/roamstack/travel-concierge/src/overpass"
	"github.com/roamstack/travel-concierge/src/webclient"
)

const UserAgent = "travel-concierge/1.0"

// summaryPreamble is prepended to every tool result so the model relays the
// data without inventing details.
const summaryPreamble = "Summarise this for me. Do not modify or add information. "

// Endpoints are the third-party API bases; overridable for tests.
type Endpoints struct {
	Holidays  string
	Weather   string
	Countries string
	Exchange  string
	Overpass  string
}

// DefaultEndpoints returns the public API bases.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Holidays:  "https://date.nager.at/api/v3",
		Weather:   "https://api.open-meteo.com/v1",
		Countries: "https://restcountries.com/v3.1",
		Exchange:  "https://api.exchangerate-api.com/v4",
		Overpass:  overpass.DefaultEndpoint,
	}
}

// Service bundles the resilient fetcher, the geocoding resolver and the API
// endpoints behind the individual tools.
type Service struct {
	fetch *webclient.Fetcher
	geo   *geocode.Resolver
	eps   Endpoints
}

// NewService wires a tool service. A zero Endpoints value selects the public
// APIs.
func NewService(fetch *webclient.Fetcher, geo *geocode.Resolver, eps Endpoints) *Service {
	if eps == (Endpoints{}) {
		eps = DefaultEndpoints()
	}
	return &Service{fetch: fetch, geo: geo, eps: eps}
}
