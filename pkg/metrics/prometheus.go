// Package metrics provides Prometheus metrics for the bikelog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Maintenance log metrics
	recordsAppended   prometheus.Counter
	validationRejects prometheus.Counter
	storeOperations   *prometheus.CounterVec
	storeLatency      *prometheus.HistogramVec
	storeResets       prometheus.Counter
	historyRecords    prometheus.Gauge
	historyTotalCost  prometheus.Gauge

	// Manual search metrics
	searchRequests    prometheus.Counter
	searchCacheHits   prometheus.Counter
	searchCacheMisses prometheus.Counter
	searchCacheSize   prometheus.Gauge
	searchCacheClears prometheus.Counter
	searchUpstream    *prometheus.CounterVec
	searchLatency     prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByKind     *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "bikelog",
		subsystem:        "maintenance",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.recordsAppended = m.counter("records_appended_total", "Total number of maintenance records appended to the store")
	m.validationRejects = m.counter("validation_rejects_total", "Total number of submissions rejected before any I/O")
	m.storeOperations = m.counterVec("store_operations_total", "Store operations by backend, operation and status", "backend", "op", "status")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Store operation latency in milliseconds", "backend", "op")
	m.storeResets = m.counter("store_resets_total", "Total number of cached store connections dropped")
	m.historyRecords = m.gauge("history_records", "Number of records seen by the last history load")
	m.historyTotalCost = m.gauge("history_total_cost", "Total cost seen by the last history load")

	m.searchRequests = m.counter("search_requests_total", "Total number of manual search requests")
	m.searchCacheHits = m.counter("search_cache_hits_total", "Manual search requests served from cache")
	m.searchCacheMisses = m.counter("search_cache_misses_total", "Manual search requests that missed the cache")
	m.searchCacheSize = m.gauge("search_cache_entries", "Current number of cached manual search results")
	m.searchCacheClears = m.counter("search_cache_clears_total", "Total number of manual search cache clears")
	m.searchUpstream = m.counterVec("search_upstream_calls_total", "Calls to the external search endpoint by status", "status")
	m.searchLatency = m.histogram("search_latency_milliseconds", "External search call latency in milliseconds", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByKind = m.counterVec("errors_by_kind_total", "Total number of errors by component and error kind", "component", "kind")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Maintenance Log Functions.

// RecordAppended increments the appended records counter.
func RecordAppended() {
	globalManager.recordsAppended.Inc()
}

// RecordValidationReject increments the rejected submissions counter.
func RecordValidationReject() {
	globalManager.validationRejects.Inc()
}

// RecordStoreOperation counts one store operation and observes its latency.
func RecordStoreOperation(backend, op, status string, latencyMs float64) {
	globalManager.storeOperations.WithLabelValues(backend, op, status).Inc()
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordStoreReset increments the store reset counter.
func RecordStoreReset() {
	globalManager.storeResets.Inc()
}

// UpdateHistory sets the history gauges from the last load.
func UpdateHistory(records int, totalCost float64) {
	globalManager.historyRecords.Set(float64(records))
	globalManager.historyTotalCost.Set(totalCost)
}

// Manual Search Functions.

// RecordSearchRequest increments the search request counter.
func RecordSearchRequest() {
	globalManager.searchRequests.Inc()
}

// RecordSearchCacheHit increments the cache hit counter.
func RecordSearchCacheHit() {
	globalManager.searchCacheHits.Inc()
}

// RecordSearchCacheMiss increments the cache miss counter.
func RecordSearchCacheMiss() {
	globalManager.searchCacheMisses.Inc()
}

// UpdateSearchCacheSize sets the number of cached search results.
func UpdateSearchCacheSize(n int) {
	globalManager.searchCacheSize.Set(float64(n))
}

// RecordSearchCacheClear increments the cache clear counter.
func RecordSearchCacheClear() {
	globalManager.searchCacheClears.Inc()
}

// RecordSearchUpstream counts one external call and observes its latency.
func RecordSearchUpstream(status string, latencyMs float64) {
	globalManager.searchUpstream.WithLabelValues(status).Inc()
	globalManager.searchLatency.Observe(latencyMs)
}

// HTTP Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByKind records an error with component and kind labels.
func RecordErrorByKind(component, kind string) {
	globalManager.errorRateByKind.WithLabelValues(component, kind).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
