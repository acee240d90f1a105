package geocode

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sorun_takip_backend/internal/gazetteer"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"
)

// Static confidence weights by source tier. The free tier is promoted to the
// top weight when no paid provider is enabled, so disabling paid providers
// does not silently degrade the quality signal.
const (
	confidencePrimary   = 0.9
	confidenceSecondary = 0.8
	confidenceFree      = 0.7

	defaultProviderTimeout = 10 * time.Second
)

// AddressResolver resolves a coordinate into a merged address.
type AddressResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (MergedAddress, error)
}

// Resolver fans out to every enabled provider concurrently, waits for all of
// them to settle, and reconciles the surviving candidates field by field.
// It fails only when every provider fails.
type Resolver struct {
	providers []AddressProvider
	timeout   time.Duration
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewResolver builds a resolver over the enabled providers. The timeout is a
// per-provider ceiling; the resolver still waits for every provider to settle
// within it, trading latency for cross-checked completeness.
func NewResolver(providers []AddressProvider, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Resolver {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &Resolver{
		providers: providers,
		timeout:   timeout,
		log:       log,
		metrics:   m,
	}
}

type settledResult struct {
	provider  string
	candidate AddressCandidate
	err       error
}

func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (MergedAddress, error) {
	if len(r.providers) == 0 {
		return MergedAddress{}, errors.New("no geocoding providers enabled")
	}

	results := make(chan settledResult, len(r.providers))
	for _, provider := range r.providers {
		go func(p AddressProvider) {
			callCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			candidate, err := p.Resolve(callCtx, lat, lon)
			r.metrics.GeocodeAPIDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
			results <- settledResult{provider: p.Name(), candidate: candidate, err: err}
		}(provider)
	}

	candidates := make([]AddressCandidate, 0, len(r.providers))
	failures := make([]error, 0)
	for range r.providers {
		settled := <-results
		if settled.err != nil {
			r.metrics.GeocodeRequests.WithLabelValues(settled.provider, "error").Inc()
			r.log.GeocodeProviderError(settled.provider, lat, lon, settled.err)
			failures = append(failures, fmt.Errorf("%s: %w", settled.provider, settled.err))
			continue
		}
		r.metrics.GeocodeRequests.WithLabelValues(settled.provider, "success").Inc()
		candidates = append(candidates, settled.candidate)
	}

	if len(candidates) == 0 {
		return MergedAddress{}, fmt.Errorf("all geocoding providers failed: %w", errors.Join(failures...))
	}

	r.assignConfidence(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return reconcile(candidates), nil
}

func (r *Resolver) assignConfidence(candidates []AddressCandidate) {
	paidEnabled := false
	for _, provider := range r.providers {
		if provider.Source() != SourceFree {
			paidEnabled = true
			break
		}
	}

	for i := range candidates {
		switch candidates[i].Source {
		case SourcePrimary:
			candidates[i].Confidence = confidencePrimary
		case SourceSecondary:
			candidates[i].Confidence = confidenceSecondary
		case SourceFree:
			if paidEnabled {
				candidates[i].Confidence = confidenceFree
			} else {
				candidates[i].Confidence = confidencePrimary
			}
		}
	}
}

// reconcile merges candidates already sorted descending by confidence.
// Per-field merge is full-value substitution: the highest-confidence
// non-empty value wins, values are never concatenated.
func reconcile(ordered []AddressCandidate) MergedAddress {
	pick := func(get func(AddressCandidate) string) string {
		for _, candidate := range ordered {
			if value := get(candidate); value != "" {
				return value
			}
		}
		return ""
	}

	merged := MergedAddress{
		Street:          pick(func(c AddressCandidate) string { return c.Street }),
		HouseNumber:     pick(func(c AddressCandidate) string { return c.HouseNumber }),
		Building:        pick(func(c AddressCandidate) string { return c.Building }),
		PointOfInterest: pick(func(c AddressCandidate) string { return c.PointOfInterest }),
		Neighbourhood:   pick(func(c AddressCandidate) string { return c.Neighbourhood }),
		District:        pick(func(c AddressCandidate) string { return c.District }),
		City:            pick(func(c AddressCandidate) string { return c.City }),
		PostalCode:      pick(func(c AddressCandidate) string { return c.PostalCode }),
	}

	// Venue name as address fallback when no street or district was found.
	if merged.District == "" && merged.PointOfInterest != "" && merged.Street == "" {
		merged.Street = merged.PointOfInterest
	}
	// Administrative-name collision: a district must not share the province
	// name; prefer the neighbourhood when one exists.
	if merged.District != "" && merged.District == merged.City && merged.Neighbourhood != "" {
		merged.District = merged.Neighbourhood
	}

	applyGazetteerCorrection(&merged)

	if merged.District != "" && merged.District == merged.City {
		if merged.Neighbourhood != "" && merged.Neighbourhood != merged.City {
			merged.District = merged.Neighbourhood
		} else {
			merged.District = ""
		}
	}

	base := ordered[0]
	if base.Source == SourcePrimary && base.FullAddress != "" {
		// The primary provider's formatted string is authoritative.
		merged.FullAddress = base.FullAddress
	} else {
		merged.FullAddress = FormatAddress(merged)
	}

	return merged
}

// applyGazetteerCorrection snaps the merged city to a canonical province name
// and the district to that province's district list. A district that matches
// nothing is left as free text rather than discarded.
func applyGazetteerCorrection(m *MergedAddress) {
	if m.City != "" {
		if province, ok := gazetteer.MatchProvince(m.City); ok {
			m.City = province
		}
	}
	if m.City == "" || m.District == "" {
		return
	}
	if district, ok := gazetteer.MatchDistrict(m.City, m.District); ok {
		m.District = district
	}
}
