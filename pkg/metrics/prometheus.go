// Package metrics provides Prometheus metrics for the player portal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for sign-in outcomes.
const (
	SignInSuccess      = "success"
	SignInUnknownEmail = "unknown_email"
	SignInThrottled    = "throttled"
	SignInError        = "error"
)

// Manager manages all Prometheus metrics for the portal.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Portal metrics
	signIns             *prometheus.CounterVec
	signOuts            prometheus.Counter
	activeIdentities    prometheus.Gauge
	metricsComputations prometheus.Counter
	trendLabels         *prometheus.CounterVec
	consistencyLabels   *prometheus.CounterVec
	sessionsPerRequest  prometheus.Histogram

	// Upstream player API
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "portal",
		subsystem:        "player",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
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
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.signIns = auto.NewCounterVec(
		m.counterOpts("signins_total", "Sign-in attempts by outcome"),
		[]string{"outcome"},
	)
	m.signOuts = auto.NewCounter(m.counterOpts("signouts_total", "Total number of sign-outs"))
	m.activeIdentities = auto.NewGauge(m.gaugeOpts("active_identities", "Signed-in identities currently held in memory"))
	m.metricsComputations = auto.NewCounter(m.counterOpts("metrics_computations_total", "Derived session metrics computed"))
	m.trendLabels = auto.NewCounterVec(
		m.counterOpts("performance_trend_total", "Performance trend classifications by label"),
		[]string{"label"},
	)
	m.consistencyLabels = auto.NewCounterVec(
		m.counterOpts("consistency_total", "Training consistency classifications by label"),
		[]string{"label"},
	)
	m.sessionsPerRequest = auto.NewHistogram(m.histogramOpts(
		"sessions_per_computation", "Number of sessions fed into one metrics computation",
		[]float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
	))

	m.upstreamRequests = auto.NewCounterVec(
		m.counterOpts("upstream_requests_total", "Requests to the player API by operation and status"),
		[]string{"operation", "status_code"},
	)
	m.upstreamLatency = auto.NewHistogramVec(
		m.histogramOpts("upstream_latency_milliseconds", "Player API latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)
	m.upstreamErrors = auto.NewCounterVec(
		m.counterOpts("upstream_errors_total", "Player API failures by operation and kind"),
		[]string{"operation", "kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Portal Metrics Functions.

// RecordSignIn increments the sign-in counter for an outcome.
func RecordSignIn(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.signIns.WithLabelValues(outcome).Inc()
}

// RecordSignOut increments the sign-out counter.
func RecordSignOut() {
	if !globalManager.enabled {
		return
	}
	globalManager.signOuts.Inc()
}

// UpdateActiveIdentities sets the number of identities held in memory.
func UpdateActiveIdentities(count int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.activeIdentities.Set(float64(count))
}

// RecordMetricsComputation records one derived metrics computation and its classifications.
func RecordMetricsComputation(sessionCount int, trendLabel, consistencyLabel string) {
	if !globalManager.enabled {
		return
	}
	globalManager.metricsComputations.Inc()
	globalManager.sessionsPerRequest.Observe(float64(sessionCount))
	globalManager.trendLabels.WithLabelValues(trendLabel).Inc()
	globalManager.consistencyLabels.WithLabelValues(consistencyLabel).Inc()
}

// Upstream Metrics Functions.

// RecordUpstreamRequest records a finished call to the player API.
func RecordUpstreamRequest(operation, statusCode string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamRequests.WithLabelValues(operation, statusCode).Inc()
	globalManager.upstreamLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordUpstreamError records a failed call to the player API.
func RecordUpstreamError(operation, kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamErrors.WithLabelValues(operation, kind).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType increments error counter by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments error counter by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom metrics registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
