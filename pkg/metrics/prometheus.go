// Package metrics provides Prometheus metrics for the cfcoach analysis service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by several metrics.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Manager owns every metric exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Analysis pipeline
	analyses           *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	malformedSkipped   prometheus.Counter
	trainingPathSteps  prometheus.Histogram
	catalogLookups     *prometheus.CounterVec
	catalogLookupTimes prometheus.Histogram

	// Upstream platform
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	// Caches
	cacheRequests *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cfcoach",
		subsystem:        "analysis",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(m.counterOpts("analyses_total", "Analyses served, by result and whether the report came from cache"), []string{"result", "cached"})
	m.analysisDuration = auto.NewHistogram(m.histogramOpts("analysis_duration_milliseconds", "End-to-end analysis latency in milliseconds", m.histogramBuckets))
	m.malformedSkipped = auto.NewCounter(m.counterOpts("malformed_submissions_total", "Submissions skipped because they could not be decoded or lacked a problem"))
	m.trainingPathSteps = auto.NewHistogram(m.histogramOpts("training_path_steps", "Number of steps in produced training paths", []float64{0, 1, 2, 3, 4, 5}))
	m.catalogLookups = auto.NewCounterVec(m.counterOpts("catalog_lookups_total", "Per-topic problem catalog lookups by result"), []string{"result"})
	m.catalogLookupTimes = auto.NewHistogram(m.histogramOpts("catalog_lookup_duration_milliseconds", "Per-topic problem catalog lookup latency in milliseconds", m.histogramBuckets))

	m.upstreamRequests = auto.NewCounterVec(m.counterOpts("upstream_requests_total", "Requests to the submission platform by endpoint and result"), []string{"endpoint", "result"})
	m.upstreamDuration = auto.NewHistogramVec(m.histogramOpts("upstream_request_duration_milliseconds", "Submission platform request latency in milliseconds", m.histogramBuckets), []string{"endpoint"})

	m.cacheRequests = auto.NewCounterVec(m.counterOpts("cache_requests_total", "Cache lookups by cache name and outcome (hit, miss, error)"), []string{"cache", "outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error type"), []string{"endpoint", "method", "error_type"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("rate_limited_total", "Requests rejected by the per-client rate limiter"), []string{"endpoint"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds", []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10}))
}

func result(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultFailure
}

// RecordAnalysis records one finished analysis.
func RecordAnalysis(ok, cached bool, durationMs float64) {
	globalManager.analyses.WithLabelValues(result(ok), strconv.FormatBool(cached)).Inc()
	globalManager.analysisDuration.Observe(durationMs)
}

// RecordMalformedSubmissions adds n skipped submissions.
func RecordMalformedSubmissions(n int) {
	if n > 0 {
		globalManager.malformedSkipped.Add(float64(n))
	}
}

// RecordTrainingPathSteps observes the length of a produced training path.
func RecordTrainingPathSteps(n int) {
	globalManager.trainingPathSteps.Observe(float64(n))
}

// RecordCatalogLookup records one per-topic catalog lookup.
func RecordCatalogLookup(durationMs float64, ok bool) {
	globalManager.catalogLookups.WithLabelValues(result(ok)).Inc()
	globalManager.catalogLookupTimes.Observe(durationMs)
}

// RecordUpstreamRequest records one request to the submission platform.
func RecordUpstreamRequest(endpoint string, durationMs float64, ok bool) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, result(ok)).Inc()
	globalManager.upstreamDuration.WithLabelValues(endpoint).Observe(durationMs)
}

// RecordCacheHit records a cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheRequests.WithLabelValues(cache, "hit").Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheRequests.WithLabelValues(cache, "miss").Inc()
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(cache string) {
	globalManager.cacheRequests.WithLabelValues(cache, "error").Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
