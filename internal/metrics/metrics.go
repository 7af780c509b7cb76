// Package metrics holds the Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analysis service.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec // labels: source, tendency
	ReasoningFallbacks  *prometheus.CounterVec // labels: reason
	RateLimitedTotal    prometheus.Counter
	IndicatorComputeDur prometheus.Histogram
	MarketDataErrors    *prometheus.CounterVec // labels: operation
	CacheWarmDur        prometheus.Histogram
}

// NewMetrics registers all collectors on a private registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paragon_analyses_total",
			Help: "Completed analyses by verdict source and tendency",
		}, []string{"source", "tendency"}),
		ReasoningFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paragon_reasoning_fallbacks_total",
			Help: "Analyses that fell back to the rule-based classifier",
		}, []string{"reason"}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paragon_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		IndicatorComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paragon_indicator_compute_seconds",
			Help:    "Indicator set computation latency",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		MarketDataErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paragon_market_data_errors_total",
			Help: "Market data fetch failures",
		}, []string{"operation"}),
		CacheWarmDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "paragon_cache_warm_seconds",
			Help:    "Duration of one cache warming run",
			Buckets: prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AnalysesTotal,
		m.ReasoningFallbacks,
		m.RateLimitedTotal,
		m.IndicatorComputeDur,
		m.MarketDataErrors,
		m.CacheWarmDur,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordAnalysis(source, tendency string) {
	m.AnalysesTotal.WithLabelValues(source, tendency).Inc()
}

func (m *Metrics) RecordReasoningFallback(reason string) {
	m.ReasoningFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

func (m *Metrics) RecordMarketDataError(operation string) {
	m.MarketDataErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveIndicatorCompute(d time.Duration) {
	m.IndicatorComputeDur.Observe(d.Seconds())
}

func (m *Metrics) ObserveCacheWarm(d time.Duration) {
	m.CacheWarmDur.Observe(d.Seconds())
}
