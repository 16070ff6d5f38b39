// File path: internal/geo/geo_test.go
package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func testClient(server *httptest.Server) *Client {
	client := NewClient()
	client.SetBaseURL(server.URL)
	client.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	return client
}

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "12 Harbor Street" {
			t.Fatalf("query q = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Fatalf("query limit = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "MenuCard-App/1.0" {
			t.Fatalf("user agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name":"12 Harbor Street, Portside","lat":"51.5","lon":"-0.1","importance":0.8,"type":"house","class":"place"}]`))
	}))
	defer server.Close()

	results, err := testClient(server).Geocode(context.Background(), "12 Harbor Street")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Lat != 51.5 || results[0].Lng != -0.1 {
		t.Fatalf("coordinates not parsed: %+v", results[0])
	}
}

func TestGeocodeEmptyAddress(t *testing.T) {
	client := NewClient()
	client.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	if _, err := client.Geocode(context.Background(), "  "); err == nil {
		t.Fatalf("empty address must be rejected")
	}
}

func TestReverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Town Hall, Portside","address":{"road":"Main Road","town":"Portside","country":"UK"}}`))
	}))
	defer server.Close()

	place, err := testClient(server).Reverse(context.Background(), 51.5, -0.1)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if place.DisplayName != "Town Hall, Portside" {
		t.Fatalf("display name = %q", place.DisplayName)
	}
	if place.Details.City != "Portside" {
		t.Fatalf("town fallback not applied: %+v", place.Details)
	}
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := testClient(server).Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatalf("expected upstream failure to surface")
	}
}
