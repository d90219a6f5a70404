package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/roamstack/travel-concierge/src/geocode"
	"github.com/roamstack/travel-concierge/src/webclient"
)

// newTestService routes every API the service talks to onto one test server.
func newTestService(t *testing.T, mux *http.ServeMux) *Service {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	fetcher := webclient.NewFetcher(srv.Client(), "test/1.0")
	resolver := geocode.NewResolver(fetcher, srv.URL+"/geo")
	return NewService(fetcher, resolver, Endpoints{
		Holidays:  srv.URL + "/holidays",
		Weather:   srv.URL + "/weather",
		Countries: srv.URL + "/countries",
		Exchange:  srv.URL + "/exchange",
		Overpass:  srv.URL + "/overpass",
	})
}

func geoHandler(lat, lon string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"lat":"%s","lon":"%s"}]`, lat, lon)
	}
}

func TestConvertCurrency(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exchange/latest/USD", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.9234,"GBP":0.79}}`))
	})
	svc := newTestService(t, mux)

	got := svc.ConvertCurrency(context.Background(), 100, "USD", "EUR")
	if !strings.Contains(got, "100 USD = 92.34 EUR") {
		t.Errorf("conversion line missing: %q", got)
	}
	if !strings.Contains(got, "1 USD = 0.9234 EUR") {
		t.Errorf("rate line missing: %q", got)
	}
	if !strings.HasPrefix(got, "Summarise this for me.") {
		t.Errorf("preamble missing: %q", got)
	}
}

func TestConvertCurrencyUnknownTarget(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exchange/latest/USD", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	})
	svc := newTestService(t, mux)

	got := svc.ConvertCurrency(context.Background(), 5, "USD", "XYZ")
	if got != "Currency XYZ not found in exchange rates." {
		t.Errorf("got %q", got)
	}
}

func TestConvertCurrencyAPIDown(t *testing.T) {
	mux := http.NewServeMux() // no routes: every request 404s
	svc := newTestService(t, mux)

	got := svc.ConvertCurrency(context.Background(), 5, "USD", "EUR")
	if got != "Unable to fetch exchange rates for USD." {
		t.Errorf("got %q", got)
	}
}

func TestPublicHolidays(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/holidays/PublicHolidays/2026/DE", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"2026-01-01","name":"New Year's Day","localName":"Neujahr"},
			{"date":"2026-10-03","name":"German Unity Day","localName":"German Unity Day"}
		]`))
	})
	svc := newTestService(t, mux)

	got := svc.PublicHolidays(context.Background(), 2026, "DE")
	if !strings.Contains(got, "Public holidays in DE for 2026:") {
		t.Errorf("header missing: %q", got)
	}
	if !strings.Contains(got, "2026-01-01: New Year's Day (Neujahr)") {
		t.Errorf("local name not appended: %q", got)
	}
	// Identical local name must not be repeated.
	if strings.Contains(got, "German Unity Day (German Unity Day)") {
		t.Errorf("duplicate local name: %q", got)
	}
}

func TestPublicHolidaysCapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/holidays/PublicHolidays/2026/JP", func(w http.ResponseWriter, r *http.Request) {
		type holiday struct {
			Date      string `json:"date"`
			Name      string `json:"name"`
			LocalName string `json:"localName"`
		}
		var all []holiday
		for i := 0; i < 20; i++ {
			all = append(all, holiday{
				Date: fmt.Sprintf("2026-01-%02d", i+1),
				Name: fmt.Sprintf("Holiday %d", i),
			})
		}
		json.NewEncoder(w).Encode(all)
	})
	svc := newTestService(t, mux)

	got := svc.PublicHolidays(context.Background(), 2026, "JP")
	if n := strings.Count(got, "2026-01-"); n != 15 {
		t.Errorf("listed %d holidays, want 15", n)
	}
	if !strings.Contains(got, "... and 5 more holidays") {
		t.Errorf("overflow note missing: %q", got)
	}
}

func TestPublicHolidaysEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/holidays/PublicHolidays/2026/AQ", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	svc := newTestService(t, mux)

	got := svc.PublicHolidays(context.Background(), 2026, "AQ")
	if got != "No public holidays were found for AQ in 2026." {
		t.Errorf("got %q", got)
	}
}

func TestWeatherByLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", geoHandler("48.8566", "2.3522"))
	mux.HandleFunc("/weather/forecast", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("current_weather") != "true" || q.Get("timezone") != "auto" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("forecast_days") != "5" {
			t.Errorf("forecast_days = %q, want 5", q.Get("forecast_days"))
		}
		w.Write([]byte(`{
			"current_weather":{"time":"2026-08-23T10:00","temperature":21.5,"windspeed":12.0,"weathercode":3},
			"daily":{
				"time":["2026-08-23","2026-08-24"],
				"temperature_2m_max":[24.1,25.0],
				"temperature_2m_min":[15.2,16.0],
				"precipitation_probability_max":[10,35]
			}
		}`))
	})
	svc := newTestService(t, mux)

	got := svc.WeatherByLocation(context.Background(), "Paris", 5)
	if !strings.Contains(got, "Current Weather (2026-08-23T10:00):") {
		t.Errorf("current section missing: %q", got)
	}
	if !strings.Contains(got, "Temperature: 21.5°C") {
		t.Errorf("temperature missing: %q", got)
	}
	if !strings.Contains(got, "2026-08-24: 16°C - 25°C, 35% rain chance") {
		t.Errorf("daily row missing: %q", got)
	}
}

func TestWeatherByLocationUnresolvable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	svc := newTestService(t, mux)

	got := svc.WeatherByLocation(context.Background(), "Atlantis", 7)
	if got != "Unable to find coordinates for location: Atlantis" {
		t.Errorf("got %q", got)
	}
}

func TestCountryInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/countries/name/france", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"name":{"common":"France","official":"French Republic"},
			"cca2":"FR",
			"capital":["Paris"],
			"region":"Europe","subregion":"Western Europe",
			"population":67391582,
			"languages":{"fra":"French"},
			"currencies":{"EUR":{"name":"Euro","symbol":"€"}},
			"latlng":[46.0,2.0],
			"timezones":["UTC+01:00"],
			"flag":"FR"
		}]`))
	})
	svc := newTestService(t, mux)

	got := svc.CountryInfo(context.Background(), "france")
	for _, want := range []string{
		"Country Information: France",
		"Official Name: French Republic",
		"Capital: Paris",
		"Region: Europe (Western Europe)",
		"Population: 67,391,582",
		"Languages: French",
		"Currencies: Euro (EUR) €",
		"Coordinates: 46, 2",
		"Time Zones: UTC+01:00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestCountryInfoNotFound(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())
	got := svc.CountryInfo(context.Background(), "narnia")
	if got != "Unable to fetch information for country: narnia" {
		t.Errorf("got %q", got)
	}
}

func TestSearchPOI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", geoHandler("48.8566", "2.3522"))
	mux.HandleFunc("/overpass", func(w http.ResponseWriter, r *http.Request) {
		data := r.URL.Query().Get("data")
		if !strings.Contains(data, `"amenity"="restaurant"`) {
			t.Errorf("unexpected overpass query: %s", data)
		}
		w.Write([]byte(`{"elements":[
			{"type":"node","tags":{"name":"Chez Test","cuisine":"french","phone":"+33 1 23","addr:street":"Rue de Test","addr:housenumber":"4"}},
			{"type":"way","tags":{"name":"Ignored"}},
			{"type":"node","tags":{"tourism":"attraction"}}
		]}`))
	})
	svc := newTestService(t, mux)

	got := svc.SearchPOI(context.Background(), "Paris", "restaurants", 10, 10000)
	for _, want := range []string{
		"Points of Interest (restaurants) in Paris:",
		"Chez Test",
		"Cuisine: french",
		"Phone: +33 1 23",
		"Address: 4 Rue de Test",
		"attraction", // nameless node falls back to its tourism tag
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Ignored") {
		t.Errorf("non-node element included:\n%s", got)
	}
}

func TestSearchPOIUnknownCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", geoHandler("1", "2"))
	svc := newTestService(t, mux)

	got := svc.SearchPOI(context.Background(), "Paris", "volcanoes", 10, 10000)
	if !strings.HasPrefix(got, "Invalid POI type: volcanoes. Available types: ") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "restaurants") {
		t.Errorf("available list incomplete: %q", got)
	}
}

func TestSearchPOINoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo", geoHandler("1", "2"))
	mux.HandleFunc("/overpass", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	})
	svc := newTestService(t, mux)

	got := svc.SearchPOI(context.Background(), "Nowhere", "museums", 10, 10000)
	if got != "No museums POIs found in Nowhere." {
		t.Errorf("got %q", got)
	}
}

func TestTravelSummarySkipsFailedSections(t *testing.T) {
	// Only the countries API responds; every other section degrades to its
	// own diagnostic but the summary is still produced.
	mux := http.NewServeMux()
	mux.HandleFunc("/countries/name/France", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":{"common":"France","official":"French Republic"},"cca2":"FR","population":1}]`))
	})
	svc := newTestService(t, mux)

	got := svc.TravelSummaryForCountry(context.Background(), "France")
	if !strings.Contains(got, "Travel Summary for France:") {
		t.Errorf("header missing: %q", got)
	}
	if !strings.Contains(got, "Country Information: France") {
		t.Errorf("country section missing: %q", got)
	}
	if !strings.Contains(got, "Unable to find coordinates for location: France") {
		t.Errorf("weather diagnostic missing: %q", got)
	}
}

func TestGroupDigits(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		67391582: "67,391,582",
	}
	for n, want := range cases {
		if got := groupDigits(n); got != want {
			t.Errorf("groupDigits(%d) = %q, want %q", n, got, want)
		}
	}
}
