// Package metrics provides Prometheus metrics for the Argus gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the gateway.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Upstream Metrics - calls to data-management / detection / explainability
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
	upstreamErrors          *prometheus.CounterVec
	upstreamRetries         prometheus.Counter

	// Calculation Metrics - anomaly detection dispatch
	calculations       *prometheus.CounterVec
	calculationErrors  prometheus.Counter
	calculationLatency prometheus.Histogram
	anomaliesDetected  prometheus.Counter

	// Session Store Metrics
	sessionCount       prometheus.Gauge
	sessionStores      prometheus.Counter
	sessionEvictions   prometheus.Counter
	sessionExpirations prometheus.Counter

	// Algorithm Catalog Metrics
	catalogSize            prometheus.Gauge
	catalogRefreshes       prometheus.Counter
	catalogRefreshErrors   prometheus.Counter
	catalogLastRefreshUnix prometheus.Gauge

	// Error Metrics - detailed error tracking
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

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "argus",
		subsystem:        "gateway",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Upstream Metrics
	m.upstreamRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream requests by service, operation and status",
		},
		[]string{"service", "operation", "status_code"},
	)

	m.upstreamRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_request_duration_milliseconds",
			Help:      "Upstream request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"service", "operation"},
	)

	m.upstreamErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_errors_total",
			Help:      "Total number of upstream errors by service and kind",
		},
		[]string{"service", "kind"},
	)

	m.upstreamRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_retries_total",
		Help:      "Total number of retried upstream requests",
	})

	// Calculation Metrics
	m.calculations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "calculations_total",
			Help:      "Total number of anomaly calculations dispatched by algorithm",
		},
		[]string{"algorithm"},
	)

	m.calculationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calculation_errors_total",
		Help:      "Total number of failed anomaly calculations",
	})

	m.calculationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calculation_latency_milliseconds",
		Help:      "End-to-end anomaly calculation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.anomaliesDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomalies_detected_total",
		Help:      "Total number of anomalies reported by calculations",
	})

	// Session Store Metrics
	m.sessionCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_count",
		Help:      "Current number of stored calculation sessions",
	})

	m.sessionStores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_stores_total",
		Help:      "Total number of calculation sessions stored",
	})

	m.sessionEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_evictions_total",
		Help:      "Total number of sessions evicted due to capacity",
	})

	m.sessionExpirations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_expirations_total",
		Help:      "Total number of sessions removed after TTL expiry",
	})

	// Algorithm Catalog Metrics
	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_size",
		Help:      "Number of algorithms in the cached catalog",
	})

	m.catalogRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_refreshes_total",
		Help:      "Total number of successful algorithm catalog refreshes",
	})

	m.catalogRefreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_refresh_errors_total",
		Help:      "Total number of failed algorithm catalog refreshes",
	})

	m.catalogLastRefreshUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_last_refresh_unix",
		Help:      "Unix timestamp of the last successful catalog refresh",
	})

	// Error Metrics
	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in an error",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Upstream Metrics Functions.

// RecordUpstreamRequest records an upstream request with its final status.
func RecordUpstreamRequest(service, operation, statusCode string) {
	globalManager.upstreamRequests.WithLabelValues(service, operation, statusCode).Inc()
}

// RecordUpstreamRequestDuration records upstream request duration.
func RecordUpstreamRequestDuration(service, operation string, durationMs float64) {
	globalManager.upstreamRequestDuration.WithLabelValues(service, operation).Observe(durationMs)
}

// RecordUpstreamError records an upstream error by kind (not_found, unavailable, upstream).
func RecordUpstreamError(service, kind string) {
	globalManager.upstreamErrors.WithLabelValues(service, kind).Inc()
}

// RecordUpstreamRetry increments the retried requests counter.
func RecordUpstreamRetry() {
	globalManager.upstreamRetries.Inc()
}

// Calculation Metrics Functions.

// RecordCalculation increments the calculations counter for an algorithm.
func RecordCalculation(algorithm string) {
	globalManager.calculations.WithLabelValues(algorithm).Inc()
}

// RecordCalculationError increments the failed calculations counter.
func RecordCalculationError() {
	globalManager.calculationErrors.Inc()
}

// RecordCalculationLatency records end-to-end calculation latency.
func RecordCalculationLatency(latencyMs float64) {
	globalManager.calculationLatency.Observe(latencyMs)
}

// RecordAnomaliesDetected adds to the detected anomalies counter.
func RecordAnomaliesDetected(count int) {
	globalManager.anomaliesDetected.Add(float64(count))
}

// Session Store Metrics Functions.

// UpdateSessionCount sets the current number of stored sessions.
func UpdateSessionCount(count int) {
	globalManager.sessionCount.Set(float64(count))
}

// RecordSessionStore increments the stored sessions counter.
func RecordSessionStore() {
	globalManager.sessionStores.Inc()
}

// RecordSessionEviction increments the capacity eviction counter.
func RecordSessionEviction() {
	globalManager.sessionEvictions.Inc()
}

// RecordSessionExpiration increments the TTL expiry counter.
func RecordSessionExpiration() {
	globalManager.sessionExpirations.Inc()
}

// Catalog Metrics Functions.

// UpdateCatalogSize sets the number of algorithms in the cached catalog.
func UpdateCatalogSize(size int) {
	globalManager.catalogSize.Set(float64(size))
}

// RecordCatalogRefresh marks a successful catalog refresh.
func RecordCatalogRefresh() {
	globalManager.catalogRefreshes.Inc()
	globalManager.catalogLastRefreshUnix.Set(float64(time.Now().Unix()))
}

// RecordCatalogRefreshError increments the failed refresh counter.
func RecordCatalogRefreshError() {
	globalManager.catalogRefreshErrors.Inc()
}

// Error Metrics Functions.

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
