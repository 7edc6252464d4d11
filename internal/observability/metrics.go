package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monitor.
type Metrics struct {
	RunsTotal      prometheus.Counter
	RunDuration    prometheus.Histogram
	SitesEvaluated prometheus.Counter
	SiteFailsafes  prometheus.Counter
	MonitorRunning prometheus.Gauge

	// Provider metrics.
	ProviderRequests      *prometheus.CounterVec // labels: provider={nws,nws-grid,openmeteo,eccc}, outcome={success,error}
	AccumulationFallbacks prometheus.Counter

	// Result metrics.
	RiskLevels  *prometheus.CounterVec // label: level={NONE,HEADSUP,WARNING,CRITICAL}
	Confidences *prometheus.CounterVec // label: grade={HIGH,MEDIUM,LOW}
	SinkErrors  *prometheus.CounterVec // label: sink={report,teams,email,kafka}
}

// NewMetrics creates and registers all monitor metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "runs_total",
			Help:      "Total completed evaluation runs.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_monitor",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete evaluation run across all sites.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		SitesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "sites_evaluated_total",
			Help:      "Total per-site evaluations performed.",
		}),
		SiteFailsafes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "site_failsafes_total",
			Help:      "Evaluations replaced by the batch-level conservative fallback result.",
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_monitor",
			Name:      "running",
			Help:      "1 while an evaluation run is in progress.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "provider_requests_total",
			Help:      "Provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		AccumulationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "accumulation_fallbacks_total",
			Help:      "Sites where the gridpoint tier failed and the daily-forecast fallback was used.",
		}),
		RiskLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "risk_levels_total",
			Help:      "Site results by classified risk level.",
		}, []string{"level"}),
		Confidences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "confidence_grades_total",
			Help:      "Site results by accumulation confidence grade.",
		}, []string{"grade"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_monitor",
			Name:      "sink_errors_total",
			Help:      "Result delivery failures by sink.",
		}, []string{"sink"}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.SitesEvaluated,
		m.SiteFailsafes,
		m.MonitorRunning,
		m.ProviderRequests,
		m.AccumulationFallbacks,
		m.RiskLevels,
		m.Confidences,
		m.SinkErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "runs_total"}),
		RunDuration:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_monitor", Name: "run_duration_seconds"}),
		SitesEvaluated:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "sites_evaluated_total"}),
		SiteFailsafes:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "site_failsafes_total"}),
		MonitorRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_monitor", Name: "running"}),
		ProviderRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "provider_requests_total"}, []string{"provider", "outcome"}),
		AccumulationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "accumulation_fallbacks_total"}),
		RiskLevels:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "risk_levels_total"}, []string{"level"}),
		Confidences:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "confidence_grades_total"}, []string{"grade"}),
		SinkErrors:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_monitor", Name: "sink_errors_total"}, []string{"sink"}),
	}
}
