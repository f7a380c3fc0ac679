// Package metrics provides Prometheus metrics for the pitchside match service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pitchside service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Match ledger
	eventsRecorded   *prometheus.CounterVec
	eventsRejected   *prometheus.CounterVec
	substitutions    *prometheus.CounterVec
	halfTransitions  *prometheus.CounterVec
	matchesCreated   prometheus.Counter
	matchesFinished  prometheus.Counter
	matchesTotal     prometheus.Gauge
	activeClocks     prometheus.Gauge
	liveClients      prometheus.Gauge
	reportBuildTime  prometheus.Histogram
	xgMemoEntries    prometheus.Gauge
	xgMemoHits       prometheus.Gauge
	xgMemoMisses     prometheus.Gauge

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

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
		namespace:        "pitchside",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounterVec(
		m.counter("events_recorded_total", "Events appended to a match ledger"),
		[]string{"type"},
	)
	m.eventsRejected = auto.NewCounterVec(
		m.counter("events_rejected_total", "Events refused by the ledger, by error kind"),
		[]string{"kind"},
	)
	m.substitutions = auto.NewCounterVec(
		m.counter("substitution_windows_total", "Substitution window requests by result"),
		[]string{"result"},
	)
	m.halfTransitions = auto.NewCounterVec(
		m.counter("half_transitions_total", "Half time and full time transitions"),
		[]string{"transition"},
	)
	m.matchesCreated = auto.NewCounter(m.counter("matches_created_total", "Matches created"))
	m.matchesFinished = auto.NewCounter(m.counter("matches_finished_total", "Matches that reached full time"))
	m.matchesTotal = auto.NewGauge(m.gauge("matches", "Matches currently stored"))
	m.activeClocks = auto.NewGauge(m.gauge("active_clocks", "Match clocks currently running"))
	m.liveClients = auto.NewGauge(m.gauge("live_clients", "Connected live websocket clients"))
	m.reportBuildTime = auto.NewHistogram(
		m.histogram("report_build_duration_milliseconds", "Report build latency in milliseconds", m.histogramBuckets),
	)
	m.xgMemoEntries = auto.NewGauge(m.gauge("xg_memo_entries", "Events with a memoized xG value"))
	m.xgMemoHits = auto.NewGauge(m.gauge("xg_memo_hits", "xG lookups served from the memo"))
	m.xgMemoMisses = auto.NewGauge(m.gauge("xg_memo_misses", "xG lookups that computed a new value"))

	m.storeLatency = auto.NewHistogramVec(
		m.histogram("store_operation_duration_milliseconds", "Store load and save latency in milliseconds", m.histogramBuckets),
		[]string{"op"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counter("store_errors_total", "Failed store operations"),
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordEventRecorded counts an appended event of the given type.
func RecordEventRecorded(eventType string) {
	globalManager.eventsRecorded.WithLabelValues(eventType).Inc()
}

// RecordEventRejected counts a refused event by error kind.
func RecordEventRejected(kind string) {
	globalManager.eventsRejected.WithLabelValues(kind).Inc()
}

// RecordSubstitution counts a window request; granted reports the outcome.
func RecordSubstitution(granted bool) {
	result := "rejected"
	if granted {
		result = "granted"
	}
	globalManager.substitutions.WithLabelValues(result).Inc()
}

// RecordHalfTransition counts a half_time or full_time transition.
func RecordHalfTransition(transition string) {
	globalManager.halfTransitions.WithLabelValues(transition).Inc()
}

// RecordMatchCreated increments the created matches counter.
func RecordMatchCreated() { globalManager.matchesCreated.Inc() }

// RecordMatchFinished increments the finished matches counter.
func RecordMatchFinished() { globalManager.matchesFinished.Inc() }

// UpdateMatchCount sets the stored match gauge.
func UpdateMatchCount(n int) { globalManager.matchesTotal.Set(float64(n)) }

// UpdateActiveClocks sets the running clock gauge.
func UpdateActiveClocks(n int) { globalManager.activeClocks.Set(float64(n)) }

// UpdateLiveClients sets the websocket client gauge.
func UpdateLiveClients(n int) { globalManager.liveClients.Set(float64(n)) }

// RecordReportBuild records report build latency in milliseconds.
func RecordReportBuild(latencyMs float64) {
	globalManager.reportBuildTime.Observe(latencyMs)
}

// UpdateXGMemo publishes the estimator memo counters.
func UpdateXGMemo(entries int, hits, misses int64) {
	globalManager.xgMemoEntries.Set(float64(entries))
	globalManager.xgMemoHits.Set(float64(hits))
	globalManager.xgMemoMisses.Set(float64(misses))
}

// RecordStoreLatency records a load or save in milliseconds.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed load or save.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
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
