package geocode

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"
)

type stubProvider struct {
	name      string
	source    Source
	candidate AddressCandidate
	err       error
	delay     time.Duration
}

func (s *stubProvider) Name() string   { return s.name }
func (s *stubProvider) Source() Source { return s.source }

func (s *stubProvider) Resolve(ctx context.Context, lat, lon float64) (AddressCandidate, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return AddressCandidate{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return AddressCandidate{}, s.err
	}
	return s.candidate, nil
}

func newTestResolver(t *testing.T, providers ...AddressProvider) *Resolver {
	t.Helper()
	return NewResolver(providers, time.Second, logger.New("test"), metrics.NewForTesting())
}

func TestResolvePrimaryFullAddressIsVerbatim(t *testing.T) {
	primary := &stubProvider{
		name:   "locationiq",
		source: SourcePrimary,
		candidate: AddressCandidate{
			Source:      SourcePrimary,
			FullAddress: "Sultanahmet, Fatih, İstanbul, Türkiye",
			District:    "Fatih",
			City:        "İstanbul",
		},
	}
	secondary := &stubProvider{
		name:   "opencage",
		source: SourceSecondary,
		candidate: AddressCandidate{
			Source:      SourceSecondary,
			FullAddress: "some other formatted string",
			City:        "İstanbul",
		},
	}
	free := &stubProvider{
		name:      "nominatim",
		source:    SourceFree,
		candidate: AddressCandidate{Source: SourceFree, City: "İstanbul"},
	}

	merged, err := newTestResolver(t, primary, secondary, free).Resolve(context.Background(), 41.0082, 28.9784)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.FullAddress != "Sultanahmet, Fatih, İstanbul, Türkiye" {
		t.Fatalf("expected primary full address verbatim, got %q", merged.FullAddress)
	}
	if merged.City != "İstanbul" || merged.District != "Fatih" {
		t.Fatalf("unexpected city/district: %q/%q", merged.City, merged.District)
	}
}

func TestResolvePerFieldSubstitution(t *testing.T) {
	primary := &stubProvider{
		name:   "locationiq",
		source: SourcePrimary,
		candidate: AddressCandidate{
			Source:   SourcePrimary,
			Street:   "İstiklal Caddesi",
			District: "Beyoğlu",
			City:     "İstanbul",
		},
	}
	free := &stubProvider{
		name:   "nominatim",
		source: SourceFree,
		candidate: AddressCandidate{
			Source:        SourceFree,
			Street:        "a different street",
			PostalCode:    "34430",
			Neighbourhood: "Tomtom",
		},
	}

	merged, err := newTestResolver(t, primary, free).Resolve(context.Background(), 41.03, 28.97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Base values win; missing base fields are filled from lower confidence.
	if merged.Street != "İstiklal Caddesi" {
		t.Fatalf("base street should win, got %q", merged.Street)
	}
	if merged.PostalCode != "34430" {
		t.Fatalf("postal code should come from the free candidate, got %q", merged.PostalCode)
	}
	if merged.Neighbourhood != "Tomtom" {
		t.Fatalf("neighbourhood should come from the free candidate, got %q", merged.Neighbourhood)
	}

	// No field may be a synthesized combination of candidates' text.
	candidates := []AddressCandidate{primary.candidate, free.candidate}
	for _, value := range []string{merged.Street, merged.PostalCode, merged.Neighbourhood, merged.District, merged.City} {
		if value == "" {
			continue
		}
		found := false
		for _, c := range candidates {
			if value == c.Street || value == c.PostalCode || value == c.Neighbourhood || value == c.District || value == c.City {
				found = true
			}
		}
		if !found {
			t.Fatalf("merged value %q does not match any single candidate field", value)
		}
	}
}

func TestResolveAllProvidersFail(t *testing.T) {
	failing := func(name string, source Source) *stubProvider {
		return &stubProvider{name: name, source: source, err: errors.New("boom")}
	}

	_, err := newTestResolver(t,
		failing("locationiq", SourcePrimary),
		failing("opencage", SourceSecondary),
		failing("nominatim", SourceFree),
	).Resolve(context.Background(), 41.0, 29.0)
	if err == nil {
		t.Fatal("expected aggregate error")
	}
	for _, name := range []string{"locationiq", "opencage", "nominatim"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("aggregate error should mention %s: %v", name, err)
		}
	}
}

func TestResolveDropsFailedProviders(t *testing.T) {
	primary := &stubProvider{name: "locationiq", source: SourcePrimary, err: errors.New("upstream 500")}
	free := &stubProvider{
		name:      "nominatim",
		source:    SourceFree,
		candidate: AddressCandidate{Source: SourceFree, Street: "Atatürk Caddesi", City: "Ankara"},
	}

	merged, err := newTestResolver(t, primary, free).Resolve(context.Background(), 39.92, 32.85)
	if err != nil {
		t.Fatalf("one surviving provider should suffice: %v", err)
	}
	if merged.Street != "Atatürk Caddesi" {
		t.Fatalf("unexpected street: %q", merged.Street)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	primary := &stubProvider{
		name:   "locationiq",
		source: SourcePrimary,
		candidate: AddressCandidate{
			Source:        SourcePrimary,
			FullAddress:   "Konak Meydanı, Konak, İzmir",
			District:      "Konak",
			City:          "İzmir",
			Neighbourhood: "Akdeniz",
		},
	}
	resolver := newTestResolver(t, primary)

	first, err := resolver.Resolve(context.Background(), 38.42, 27.13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), 38.42, 27.13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve is not idempotent: %+v vs %+v", first, second)
	}
}

func TestResolveSlowProviderIsBoundedByTimeout(t *testing.T) {
	slow := &stubProvider{
		name:      "opencage",
		source:    SourceSecondary,
		delay:     5 * time.Second,
		candidate: AddressCandidate{Source: SourceSecondary, City: "Bursa"},
	}
	fast := &stubProvider{
		name:      "nominatim",
		source:    SourceFree,
		candidate: AddressCandidate{Source: SourceFree, City: "Bursa", District: "Nilüfer"},
	}

	resolver := NewResolver([]AddressProvider{slow, fast}, 50*time.Millisecond, logger.New("test"), metrics.NewForTesting())

	start := time.Now()
	merged, err := resolver.Resolve(context.Background(), 40.18, 29.06)
	if err != nil {
		t.Fatalf("fast provider should survive: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("resolve did not respect the provider timeout ceiling: %v", elapsed)
	}
	if merged.District != "Nilüfer" {
		t.Fatalf("unexpected district: %q", merged.District)
	}
}

func TestAssignConfidencePromotesFreeWhenPaidDisabled(t *testing.T) {
	free := &stubProvider{name: "nominatim", source: SourceFree}

	onlyFree := newTestResolver(t, free)
	candidates := []AddressCandidate{{Source: SourceFree}}
	onlyFree.assignConfidence(candidates)
	if candidates[0].Confidence != confidencePrimary {
		t.Fatalf("free should be promoted to %v, got %v", confidencePrimary, candidates[0].Confidence)
	}

	withPaid := newTestResolver(t, &stubProvider{name: "locationiq", source: SourcePrimary}, free)
	candidates = []AddressCandidate{{Source: SourceFree}}
	withPaid.assignConfidence(candidates)
	if candidates[0].Confidence != confidenceFree {
		t.Fatalf("free should keep %v when a paid provider is enabled, got %v", confidenceFree, candidates[0].Confidence)
	}
}

func TestReconcileDistrictNeverEqualsCity(t *testing.T) {
	candidates := []AddressCandidate{{
		Source:        SourcePrimary,
		Confidence:    confidencePrimary,
		District:      "İstanbul",
		City:          "İstanbul",
		Neighbourhood: "Moda",
	}}

	merged := reconcile(candidates)
	if merged.District == merged.City {
		t.Fatalf("district must not equal city, got %q", merged.District)
	}
	if merged.District != "Moda" {
		t.Fatalf("expected neighbourhood fallback, got %q", merged.District)
	}
}

func TestReconcileClearsDistrictWithoutNeighbourhoodFallback(t *testing.T) {
	candidates := []AddressCandidate{{
		Source:     SourcePrimary,
		Confidence: confidencePrimary,
		District:   "Ankara",
		City:       "Ankara",
	}}

	merged := reconcile(candidates)
	if merged.District != "" {
		t.Fatalf("district should be cleared on collision, got %q", merged.District)
	}
}

func TestReconcileVenueNameAsStreetFallback(t *testing.T) {
	candidates := []AddressCandidate{{
		Source:          SourceFree,
		Confidence:      confidenceFree,
		PointOfInterest: "Galata Kulesi",
		City:            "İstanbul",
	}}

	merged := reconcile(candidates)
	if merged.Street != "Galata Kulesi" {
		t.Fatalf("expected venue name as street fallback, got %q", merged.Street)
	}
}

func TestGazetteerCorrectionMatchBranch(t *testing.T) {
	merged := MergedAddress{City: "İstanbul", District: "Kadikoy"}
	applyGazetteerCorrection(&merged)
	if merged.District != "Kadıköy" {
		t.Fatalf("expected Kadıköy, got %q", merged.District)
	}
}

func TestGazetteerCorrectionPreservesUnmatchedFreeText(t *testing.T) {
	merged := MergedAddress{City: "İstanbul", District: "Atlantis Bay"}
	applyGazetteerCorrection(&merged)
	if merged.District != "Atlantis Bay" {
		t.Fatalf("unmatched district must be preserved as free text, got %q", merged.District)
	}
}

func TestGazetteerCorrectionCanonicalizesCity(t *testing.T) {
	merged := MergedAddress{City: "istanbul"}
	applyGazetteerCorrection(&merged)
	if merged.City != "İstanbul" {
		t.Fatalf("expected İstanbul, got %q", merged.City)
	}
}
