package geocode

import (
	apphttp "sorun_takip_backend/internal/http"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/logger"
	"sorun_takip_backend/platform/metrics"

	"github.com/jonboulle/clockwork"
)

// Module wires the reverse-geocoding resolver and its HTTP routes.
type Module struct {
	resolver AddressResolver
	handler  *Handler
}

// NewModule builds the enabled providers from configuration and stacks the
// cache decorator on top of the concurrent resolver.
func NewModule(cfg config.GeocodeConfig, log *logger.Logger, m *metrics.Metrics) *Module {
	providers := make([]AddressProvider, 0, 3)
	if cfg.IsLocationIQEnabled() {
		providers = append(providers, NewLocationIQ(cfg.GetLocationIQKey(), log))
	}
	if cfg.IsOpenCageEnabled() {
		providers = append(providers, NewOpenCage(cfg.GetOpenCageKey(), log))
	}
	if cfg.IsNominatimEnabled() {
		providers = append(providers, NewNominatim(log))
	}

	resolver := NewResolver(providers, cfg.GetGeocodeProviderTimeout(), log, m)
	cached := NewCachedResolver(resolver, cfg.GetGeocodeCacheSize(), cfg.GetGeocodeCacheTTL(), clockwork.NewRealClock(), m)

	return &Module{
		resolver: cached,
		handler:  NewHandler(cached, log),
	}
}

func (m *Module) Name() string {
	return "geocode"
}

// Resolver exposes the cached resolver for server-side address fill.
func (m *Module) Resolver() AddressResolver {
	return m.resolver
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/geocode")
	group.GET("/reverse", m.handler.ReverseGeocode)

	// Static reference data for dropdowns, no auth required.
	public := ctx.V1.Group("/gazetteer")
	public.GET("/provinces", m.handler.ListProvinces)
	public.GET("/provinces/:province/districts", m.handler.ListDistricts)
}

var _ apphttp.Module = (*Module)(nil)
