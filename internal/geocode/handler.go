package geocode

import (
	"net/http"

	"sorun_takip_backend/internal/gazetteer"
	"sorun_takip_backend/platform/httpkit"
	"sorun_takip_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes the reverse-geocoding and gazetteer lookup endpoints.
type Handler struct {
	resolver AddressResolver
	log      *logger.Logger
}

func NewHandler(resolver AddressResolver, log *logger.Logger) *Handler {
	return &Handler{resolver: resolver, log: log}
}

type reverseRequest struct {
	Lat float64 `form:"lat" binding:"required,latitude"`
	Lon float64 `form:"lon" binding:"required,longitude"`
}

type reverseResponse struct {
	Address          MergedAddress `json:"address"`
	DistrictVerified bool          `json:"districtVerified"`
	Warnings         []string      `json:"warnings,omitempty"`
}

// ReverseGeocode handles GET /api/v1/geocode/reverse?lat=..&lon=..
func (h *Handler) ReverseGeocode(c *gin.Context) {
	var req reverseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "valid 'lat' and 'lon' query parameters are required", nil)
		return
	}

	merged, err := h.resolver.Resolve(c.Request.Context(), req.Lat, req.Lon)
	if err != nil {
		// Total provider failure is recoverable: the client falls back to
		// manual address entry.
		httpkit.Error(c, http.StatusBadGateway, "address information unavailable, please enter the address manually", nil)
		return
	}

	httpkit.OK(c, buildReverseResponse(merged))
}

func buildReverseResponse(merged MergedAddress) reverseResponse {
	resp := reverseResponse{Address: merged}

	if merged.City != "" {
		if _, ok := gazetteer.MatchProvince(merged.City); !ok {
			resp.Warnings = append(resp.Warnings, "city could not be matched to a known province")
		}
	}
	if merged.City != "" && merged.District != "" {
		if gazetteer.IsDistrictOf(merged.City, merged.District) {
			resp.DistrictVerified = true
		} else {
			resp.Warnings = append(resp.Warnings, "district is not in the selected province's district list")
		}
	}

	return resp
}

type provinceEntry struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// ListProvinces handles GET /api/v1/gazetteer/provinces
func (h *Handler) ListProvinces(c *gin.Context) {
	names := gazetteer.Provinces()
	entries := make([]provinceEntry, 0, len(names))
	for _, name := range names {
		coord, _ := gazetteer.Centroid(name)
		entries = append(entries, provinceEntry{Name: name, Lat: coord.Lat, Lon: coord.Lon})
	}
	httpkit.OK(c, entries)
}

// ListDistricts handles GET /api/v1/gazetteer/provinces/:province/districts
func (h *Handler) ListDistricts(c *gin.Context) {
	raw := c.Param("province")
	province, ok := gazetteer.MatchProvince(raw)
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "unknown province", nil)
		return
	}

	districts, _ := gazetteer.Districts(province)
	httpkit.OK(c, gin.H{
		"province":  province,
		"districts": districts,
	})
}
