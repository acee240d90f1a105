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

// LocationIQ is the primary commercial reverse-geocoding provider.
type LocationIQ struct {
	apiKey  string
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewLocationIQ(apiKey string, log *logger.Logger) *LocationIQ {
	return &LocationIQ{
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: "https://us1.locationiq.com/v1/reverse",
		log:     log,
	}
}

func (p *LocationIQ) Name() string   { return "locationiq" }
func (p *LocationIQ) Source() Source { return SourcePrimary }

type locationIQResponse struct {
	DisplayName string                 `json:"display_name"`
	Address     map[string]interface{} `json:"address"`
	Error       string                 `json:"error"`
}

func (p *LocationIQ) Resolve(ctx context.Context, lat, lon float64) (AddressCandidate, error) {
	if err := validateCoords(lat, lon); err != nil {
		return AddressCandidate{}, err
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "tr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return AddressCandidate{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return AddressCandidate{}, fmt.Errorf("locationiq request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return AddressCandidate{}, fmt.Errorf("locationiq upstream error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AddressCandidate{}, fmt.Errorf("locationiq read body: %w", err)
	}

	var payload locationIQResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return AddressCandidate{}, fmt.Errorf("locationiq decode: %w", err)
	}
	if payload.Error != "" {
		return AddressCandidate{}, fmt.Errorf("locationiq: %s", payload.Error)
	}
	if payload.DisplayName == "" && len(payload.Address) == 0 {
		return AddressCandidate{}, fmt.Errorf("locationiq: empty result")
	}

	components := stringComponents(payload.Address)
	return AddressCandidate{
		Source:          SourcePrimary,
		FullAddress:     payload.DisplayName,
		Street:          firstNonEmpty(components, "road", "pedestrian", "footway", "path", "track"),
		HouseNumber:     components["house_number"],
		Building:        components["building"],
		PointOfInterest: firstNonEmpty(components, "attraction", "amenity", "name"),
		Neighbourhood:   firstNonEmpty(components, "neighbourhood", "quarter", "residential"),
		District:        firstNonEmpty(components, "town", "city_district", "district", "county", "suburb"),
		City:            firstNonEmpty(components, "city", "province", "state"),
		PostalCode:      components["postcode"],
		RawData:         body,
	}, nil
}

var _ AddressProvider = (*LocationIQ)(nil)
