// Package metrics provides Prometheus metrics for the tally ledger service.
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

// Manager manages all Prometheus metrics for the tally service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Aggregation Metrics - the core reconciliation loop
	aggregationRuns     prometheus.Counter
	aggregationFailures prometheus.Counter
	aggregationDuration prometheus.Histogram
	recordsMerged       prometheus.Counter

	// Ledger State Metrics
	memberCount prometheus.Gauge
	sourceCount prometheus.Gauge

	// Correction Metrics - identity rewrites across sources
	corrections        *prometheus.CounterVec
	correctionFailures *prometheus.CounterVec
	correctionRecords  prometheus.Counter

	// Lookup Metrics
	lookupRequests prometheus.Counter
	lookupEmpty    prometheus.Counter
	lookupDuration prometheus.Histogram

	// Source I/O Metrics
	sourceReadLatency  prometheus.Histogram
	sourceWriteLatency prometheus.Histogram

	// Scheduler Metrics
	scheduledRecomputes prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

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
		namespace:        "tally",
		subsystem:        "ledger",
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
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Aggregation Metrics
	m.aggregationRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_runs_total",
		Help:      "Total number of completed ledger aggregation runs",
	})

	m.aggregationFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_failures_total",
		Help:      "Total number of aggregation runs aborted by an unavailable source",
	})

	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_milliseconds",
		Help:      "Histogram of full ledger recompute duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recordsMerged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_merged_total",
		Help:      "Total number of attendance records merged into ledgers",
	})

	// Ledger State Metrics
	m.memberCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "member_count",
		Help:      "Number of members in the current ledger",
	})

	m.sourceCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_count",
		Help:      "Number of event sources in the active tracking period",
	})

	// Correction Metrics
	m.corrections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "corrections_total",
			Help:      "Total number of applied identity corrections by kind",
		},
		[]string{"kind"},
	)

	m.correctionFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "correction_failures_total",
			Help:      "Total number of failed identity corrections by kind",
		},
		[]string{"kind"},
	)

	m.correctionRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "correction_records_total",
		Help:      "Total number of attendance records rewritten or removed by corrections",
	})

	// Lookup Metrics
	m.lookupRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_requests_total",
		Help:      "Total number of member attendance lookups",
	})

	m.lookupEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_empty_total",
		Help:      "Total number of lookups that matched no records",
	})

	m.lookupDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_duration_milliseconds",
		Help:      "Histogram of member lookup duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Source I/O Metrics
	m.sourceReadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_read_latency_milliseconds",
		Help:      "Histogram of event source read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sourceWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_write_latency_milliseconds",
		Help:      "Histogram of event source write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Scheduler Metrics
	m.scheduledRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduled_recomputes_total",
		Help:      "Total number of recomputes triggered by the scheduler",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
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

// RecordAggregationRun increments the completed aggregation counter.
func RecordAggregationRun() {
	globalManager.aggregationRuns.Inc()
}

// RecordAggregationFailure increments the aborted aggregation counter.
func RecordAggregationFailure() {
	globalManager.aggregationFailures.Inc()
}

// RecordAggregationDuration records a full recompute duration in milliseconds.
func RecordAggregationDuration(durationMs float64) {
	globalManager.aggregationDuration.Observe(durationMs)
}

// RecordRecordsMerged adds to the merged records counter.
func RecordRecordsMerged(count int) {
	globalManager.recordsMerged.Add(float64(count))
}

// UpdateMemberCount sets the current ledger member count.
func UpdateMemberCount(count int) {
	globalManager.memberCount.Set(float64(count))
}

// UpdateSourceCount sets the number of sources in the active period.
func UpdateSourceCount(count int) {
	globalManager.sourceCount.Set(float64(count))
}

// RecordCorrection increments the applied corrections counter for a kind.
func RecordCorrection(kind string) {
	globalManager.corrections.WithLabelValues(kind).Inc()
}

// RecordCorrectionFailure increments the failed corrections counter for a kind.
func RecordCorrectionFailure(kind string) {
	globalManager.correctionFailures.WithLabelValues(kind).Inc()
}

// RecordCorrectionRecords adds to the rewritten records counter.
func RecordCorrectionRecords(count int) {
	globalManager.correctionRecords.Add(float64(count))
}

// RecordLookupRequest increments the lookup counter.
func RecordLookupRequest() {
	globalManager.lookupRequests.Inc()
}

// RecordLookupEmpty increments the empty-result lookup counter.
func RecordLookupEmpty() {
	globalManager.lookupEmpty.Inc()
}

// RecordLookupDuration records a lookup duration in milliseconds.
func RecordLookupDuration(durationMs float64) {
	globalManager.lookupDuration.Observe(durationMs)
}

// RecordSourceReadLatency records one source read in milliseconds.
func RecordSourceReadLatency(latencyMs float64) {
	globalManager.sourceReadLatency.Observe(latencyMs)
}

// RecordSourceWriteLatency records one source write in milliseconds.
func RecordSourceWriteLatency(latencyMs float64) {
	globalManager.sourceWriteLatency.Observe(latencyMs)
}

// RecordScheduledRecompute increments the scheduler-triggered recompute counter.
func RecordScheduledRecompute() {
	globalManager.scheduledRecomputes.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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
