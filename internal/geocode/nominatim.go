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

// Nominatim is the free community reverse-geocoding provider (OpenStreetMap).
// It requires a descriptive User-Agent and must not be hammered; the resolver
// invokes it at most once per lookup and the cache absorbs repeats.
type Nominatim struct {
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewNominatim(log *logger.Logger) *Nominatim {
	return &Nominatim{
		client:  &http.Client{},
		baseURL: "https://nominatim.openstreetmap.org/reverse",
		log:     log,
	}
}

func (p *Nominatim) Name() string   { return "nominatim" }
func (p *Nominatim) Source() Source { return SourceFree }

type nominatimResponse struct {
	DisplayName string                 `json:"display_name"`
	Address     map[string]interface{} `json:"address"`
	Error       string                 `json:"error"`
}

func (p *Nominatim) Resolve(ctx context.Context, lat, lon float64) (AddressCandidate, error) {
	if err := validateCoords(lat, lon); err != nil {
		return AddressCandidate{}, err
	}

	params := url.Values{}
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
		return AddressCandidate{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return AddressCandidate{}, fmt.Errorf("nominatim upstream error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AddressCandidate{}, fmt.Errorf("nominatim read body: %w", err)
	}

	var payload nominatimResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return AddressCandidate{}, fmt.Errorf("nominatim decode: %w", err)
	}
	// Nominatim reports "Unable to geocode" with HTTP 200.
	if payload.Error != "" {
		return AddressCandidate{}, fmt.Errorf("nominatim: %s", payload.Error)
	}
	if payload.DisplayName == "" && len(payload.Address) == 0 {
		return AddressCandidate{}, fmt.Errorf("nominatim: empty result")
	}

	components := stringComponents(payload.Address)
	return AddressCandidate{
		Source:          SourceFree,
		FullAddress:     payload.DisplayName,
		Street:          firstNonEmpty(components, "road", "pedestrian", "footway", "path", "track"),
		HouseNumber:     components["house_number"],
		Building:        components["building"],
		PointOfInterest: firstNonEmpty(components, "amenity", "tourism", "shop", "office"),
		Neighbourhood:   firstNonEmpty(components, "neighbourhood", "quarter", "hamlet"),
		District:        firstNonEmpty(components, "town", "county", "city_district", "municipality", "suburb"),
		City:            firstNonEmpty(components, "province", "city", "state"),
		PostalCode:      components["postcode"],
		RawData:         body,
	}, nil
}

var _ AddressProvider = (*Nominatim)(nil)
