// Package metrics provides Prometheus instrumentation for the application.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the backend.
type Metrics struct {
	GeocodeRequests    *prometheus.CounterVec   // labels: provider, outcome={success,error}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider
	ReportsCreated     *prometheus.CounterVec   // labels: category
	StatusTransitions  *prometheus.CounterVec   // labels: from, to
}

// New creates and registers all application metrics with the default Prometheus registry.
func New() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.ReportsCreated,
		m.StatusTransitions,
	)

	return m
}

// NewForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorun_takip",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorun_takip",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sorun_takip",
			Name:      "geocode_api_duration_seconds",
			Help:      "Reverse geocoding provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ReportsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorun_takip",
			Name:      "reports_created_total",
			Help:      "Citizen reports created by category.",
		}, []string{"category"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sorun_takip",
			Name:      "report_status_transitions_total",
			Help:      "Report status transitions by from and to status.",
		}, []string{"from", "to"}),
	}
}
