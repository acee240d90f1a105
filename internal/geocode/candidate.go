// Package geocode reconciles reverse-geocoding results from multiple
// providers into a single merged address, corrected against the Turkish
// administrative gazetteer.
package geocode

import "encoding/json"

// Source identifies which provider produced a candidate.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceFree      Source = "free"
)

// AddressCandidate is one provider's normalized reverse-geocoding result.
// Every field is always present; absence is the empty string, never a
// missing field. Candidates live for one resolve call only.
type AddressCandidate struct {
	Source     Source
	Confidence float64

	// FullAddress is the provider's own formatted string. It is used
	// verbatim when the source is the primary provider.
	FullAddress string

	Street          string
	HouseNumber     string
	Building        string
	PointOfInterest string
	Neighbourhood   string
	District        string
	City            string
	PostalCode      string

	// RawData is the provider's unmodified response, retained for
	// heuristic lookups of field names the structured extraction missed.
	RawData json.RawMessage
}

// MergedAddress is the reconciled result of one or more candidates. Every
// non-empty field value came from exactly one contributing candidate.
type MergedAddress struct {
	FullAddress     string `json:"fullAddress"`
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	Building        string `json:"building"`
	PointOfInterest string `json:"pointOfInterest"`
	Neighbourhood   string `json:"neighbourhood"`
	District        string `json:"district"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
}
