// Package metrics provides the Prometheus backend for the
// observability hooks.
//
// Library code emits events through [observability] and stays free of
// Prometheus imports; this package turns those events into collectors.
// The serve command creates one [Registry], installs its hooks with
// [Register], and mounts [Registry.Handler] on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline metrics
	StageTotal     *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	GraphNodes     prometheus.Histogram
	LayoutOverlaps prometheus.Histogram
	ArtifactBytes  *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPPanicsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler returns the exposition handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// =============================================================================
// Collector Initialization
// =============================================================================

func (r *Registry) initPipelineMetrics() {
	r.StageTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "origintrace_stage_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origintrace_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"stage"},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "origintrace_graph_nodes",
			Help:    "Node count of built graphs",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	r.LayoutOverlaps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "origintrace_layout_overlaps",
			Help:    "Node pairs left overlapping after separation passes",
			Buckets: []float64{0, 1, 2, 5, 10},
		},
	)

	r.ArtifactBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origintrace_artifact_bytes",
			Help:    "Exported artifact size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "origintrace_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "origintrace_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origintrace_cache_set_bytes",
			Help:    "Size of cache writes in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "origintrace_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "origintrace_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "origintrace_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	r.HTTPPanicsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "origintrace_http_panics_total",
			Help: "Total number of requests aborted by a recovered panic",
		},
		[]string{"method", "route"},
	)
}
