package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sorun_takip_backend/platform/logger"
)

func TestLocationIQResolveExtractsFields(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Galata Kulesi Sokak 8, Bereketzade, Beyoğlu, İstanbul, 34421, Türkiye",
			"address": {
				"road": "Galata Kulesi Sokak",
				"house_number": "8",
				"neighbourhood": "Bereketzade",
				"town": "Beyoğlu",
				"city": "İstanbul",
				"postcode": "34421"
			}
		}`))
	}))
	defer server.Close()

	provider := NewLocationIQ("test-key", logger.New("test"))
	provider.baseURL = server.URL

	candidate, err := provider.Resolve(context.Background(), 41.0256, 28.9742)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if candidate.Source != SourcePrimary {
		t.Fatalf("unexpected source: %s", candidate.Source)
	}
	if candidate.Street != "Galata Kulesi Sokak" || candidate.HouseNumber != "8" {
		t.Fatalf("unexpected street extraction: %q %q", candidate.Street, candidate.HouseNumber)
	}
	if candidate.District != "Beyoğlu" || candidate.City != "İstanbul" {
		t.Fatalf("unexpected district/city: %q %q", candidate.District, candidate.City)
	}
	if len(candidate.RawData) == 0 {
		t.Fatal("raw payload should be retained")
	}

	if got := gotQuery["lat"]; len(got) != 1 || got[0] != "41.025600" {
		t.Fatalf("latitude should be sent with 6 decimals, got %v", got)
	}
	if got := gotQuery["key"]; len(got) != 1 || got[0] != "test-key" {
		t.Fatalf("api key missing from query: %v", got)
	}
}

func TestLocationIQStreetFieldPreferenceOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"display_name": "somewhere",
			"address": {"pedestrian": "Yaya Yolu", "footway": "Patika"}
		}`))
	}))
	defer server.Close()

	provider := NewLocationIQ("k", logger.New("test"))
	provider.baseURL = server.URL

	candidate, err := provider.Resolve(context.Background(), 41.0, 29.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Street != "Yaya Yolu" {
		t.Fatalf("pedestrian should outrank footway, got %q", candidate.Street)
	}
}

func TestLocationIQUpstreamErrorIsAllOrNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewLocationIQ("k", logger.New("test"))
	provider.baseURL = server.URL

	if _, err := provider.Resolve(context.Background(), 41.0, 29.0); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestOpenCageResolveExtractsFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"results": [{
				"formatted": "Anafartalar Caddesi, Ulus, Altındağ, Ankara, Türkiye",
				"components": {
					"road": "Anafartalar Caddesi",
					"quarter": "Ulus",
					"town": "Altındağ",
					"city": "Ankara",
					"postcode": "06050"
				}
			}]
		}`))
	}))
	defer server.Close()

	provider := NewOpenCage("k", logger.New("test"))
	provider.baseURL = server.URL

	candidate, err := provider.Resolve(context.Background(), 39.9421, 32.8543)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Source != SourceSecondary {
		t.Fatalf("unexpected source: %s", candidate.Source)
	}
	if candidate.Neighbourhood != "Ulus" || candidate.District != "Altındağ" || candidate.City != "Ankara" {
		t.Fatalf("unexpected extraction: %+v", candidate)
	}
}

func TestOpenCageEmptyResultSetRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	provider := NewOpenCage("k", logger.New("test"))
	provider.baseURL = server.URL

	if _, err := provider.Resolve(context.Background(), 41.0, 29.0); err == nil {
		t.Fatal("expected error on empty result set")
	}
}

func TestNominatimResolveExtractsFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("nominatim requires a User-Agent header")
		}
		_, _ = w.Write([]byte(`{
			"display_name": "Kordon, Alsancak, Konak, İzmir, Türkiye",
			"address": {
				"road": "Kordon",
				"quarter": "Alsancak",
				"town": "Konak",
				"province": "İzmir"
			}
		}`))
	}))
	defer server.Close()

	provider := NewNominatim(logger.New("test"))
	provider.baseURL = server.URL

	candidate, err := provider.Resolve(context.Background(), 38.4333, 27.1428)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Source != SourceFree {
		t.Fatalf("unexpected source: %s", candidate.Source)
	}
	if candidate.Neighbourhood != "Alsancak" || candidate.District != "Konak" || candidate.City != "İzmir" {
		t.Fatalf("unexpected extraction: %+v", candidate)
	}
}

func TestNominatimUnableToGeocodeRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	provider := NewNominatim(logger.New("test"))
	provider.baseURL = server.URL

	if _, err := provider.Resolve(context.Background(), 0.0, 0.0); err == nil {
		t.Fatal("expected error on unable-to-geocode response")
	}
}

func TestAdaptersRejectOutOfRangeCoordinates(t *testing.T) {
	provider := NewNominatim(logger.New("test"))
	if _, err := provider.Resolve(context.Background(), 91.0, 29.0); err == nil {
		t.Fatal("latitude out of range should be rejected")
	}
	if _, err := provider.Resolve(context.Background(), 41.0, 181.0); err == nil {
		t.Fatal("longitude out of range should be rejected")
	}
}
