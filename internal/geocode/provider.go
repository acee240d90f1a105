package geocode

import (
	"context"
	"fmt"
	"strconv"
)

// AddressProvider resolves a coordinate into one address candidate.
// Implementations are all-or-nothing: they either return a fully built
// candidate or an error, never partial garbage. They do not cache or retry;
// that responsibility belongs to the caller.
type AddressProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Source returns the confidence tier this provider belongs to.
	Source() Source
	Resolve(ctx context.Context, lat, lon float64) (AddressCandidate, error)
}

const userAgent = "SehirSorunTakip/1.0"

// formatCoord renders a coordinate with exactly 6 decimal places (~0.11 m)
// so provider query strings stay stable and cacheable.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// validateCoords rejects out-of-range input before any network call.
func validateCoords(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90,90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180,180]", lon)
	}
	return nil
}

// firstNonEmpty returns the first non-empty value among the named keys of an
// address component map. Each provider carries its own ordered preference
// list because administrative field semantics differ per provider.
func firstNonEmpty(components map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := components[key]; v != "" {
			return v
		}
	}
	return ""
}

// stringComponents flattens a decoded JSON object into string-valued
// components, dropping anything that is not a string.
func stringComponents(raw map[string]interface{}) map[string]string {
	components := make(map[string]string, len(raw))
	for key, value := range raw {
		if text, ok := value.(string); ok {
			components[key] = text
		}
	}
	return components
}
