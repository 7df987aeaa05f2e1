package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// estimation service.
type Metrics struct {
	EstimationRuns     *prometheus.CounterVec // labels: outcome={success,location_not_found,irradiance_unavailable,computation_error}
	EstimationDuration prometheus.Histogram

	// Upstream data-source metrics.
	IrradianceRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	FallbackUsed       prometheus.Counter       // primary failed, fallback answered
	GeocodeRequests    *prometheus.CounterVec   // labels: outcome={success,not_found,error}
	GeocodeCache       *prometheus.CounterVec   // labels: result={hit,miss}
	UpstreamDuration   *prometheus.HistogramVec // labels: service={nominatim,pvgis,nasa-power}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.EstimationRuns,
		m.EstimationDuration,
		m.IrradianceRequests,
		m.FallbackUsed,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.UpstreamDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EstimationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_estimator",
			Name:      "estimation_runs_total",
			Help:      "Completed estimation runs by outcome.",
		}, []string{"outcome"}),
		EstimationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_estimator",
			Name:      "estimation_duration_seconds",
			Help:      "Duration of a full estimation run including upstream calls.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		IrradianceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_estimator",
			Name:      "irradiance_requests_total",
			Help:      "Irradiance provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		FallbackUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_estimator",
			Name:      "irradiance_fallback_used_total",
			Help:      "Runs where the primary provider failed and the fallback answered.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_estimator",
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_estimator",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solar_estimator",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
	}
}
