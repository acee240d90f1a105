package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"sorun_takip_backend/platform/logger"
)

// OpenCage is the secondary commercial reverse-geocoding provider.
type OpenCage struct {
	apiKey  string
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewOpenCage(apiKey string, log *logger.Logger) *OpenCage {
	return &OpenCage{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: "https://api.opencagedata.com/geocode/v1/json",
		log:     log,
	}
}

func (p *OpenCage) Name() string   { return "opencage" }
func (p *OpenCage) Source() Source { return SourceSecondary }

type openCageResponse struct {
	Results []struct {
		Formatted  string                 `json:"formatted"`
		Components map[string]interface{} `json:"components"`
	} `json:"results"`
}

func (p *OpenCage) Resolve(ctx context.Context, lat, lon float64) (AddressCandidate, error) {
	if err := validateCoords(lat, lon); err != nil {
		return AddressCandidate{}, err
	}

	params := url.Values{}
	params.Set("q", formatCoord(lat)+","+formatCoord(lon))
	params.Set("key", p.apiKey)
	params.Set("language", "tr")
	params.Set("no_annotations", "1")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return AddressCandidate{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return AddressCandidate{}, fmt.Errorf("opencage request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return AddressCandidate{}, fmt.Errorf("opencage upstream error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AddressCandidate{}, fmt.Errorf("opencage read body: %w", err)
	}

	var payload openCageResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return AddressCandidate{}, fmt.Errorf("opencage decode: %w", err)
	}
	if len(payload.Results) == 0 {
		return AddressCandidate{}, fmt.Errorf("opencage: empty result set")
	}

	result := payload.Results[0]
	components := stringComponents(result.Components)
	return AddressCandidate{
		Source:          SourceSecondary,
		FullAddress:     result.Formatted,
		Street:          firstNonEmpty(components, "road", "street", "pedestrian", "footway", "path"),
		HouseNumber:     firstNonEmpty(components, "house_number", "street_number"),
		Building:        components["building"],
		PointOfInterest: firstNonEmpty(components, "point_of_interest", "attraction", "amenity"),
		Neighbourhood:   firstNonEmpty(components, "neighbourhood", "quarter", "suburb"),
		District:        firstNonEmpty(components, "town", "city_district", "district", "county"),
		City:            firstNonEmpty(components, "city", "province", "state"),
		PostalCode:      components["postcode"],
		RawData:         body,
	}, nil
}

var _ AddressProvider = (*OpenCage)(nil)
