// Package metrics provides Prometheus metrics for the talentlab service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ovrBuckets split the 0-100 rating scale into deciles.
var ovrBuckets = prometheus.LinearBuckets(10, 10, 10) //nolint:gochecknoglobals // constant bucket layout

// Manager owns every Prometheus metric the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Evaluation intake and scoring
	evaluationsAccepted  prometheus.Counter
	evaluationsDuplicate prometheus.Counter
	evaluationsRejected  *prometheus.CounterVec
	evaluationsScored    prometheus.Counter
	scoringLatency       prometheus.Histogram
	ovr                  prometheus.Histogram
	fallbacks            *prometheus.CounterVec
	skippedAnswers       prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerCount             prometheus.Gauge
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// History store
	storePlayers       prometheus.Gauge
	storeEvaluations   prometheus.Gauge
	storeAppendLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to keep the exposition limited to what we register.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// metrics land on the Prometheus default registerer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentlab",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
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
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.evaluationsAccepted = m.counter("evaluations_accepted_total", "Evaluations accepted for scoring")
	m.evaluationsDuplicate = m.counter("evaluations_duplicate_total", "Evaluations dropped because their id was already seen")
	m.evaluationsRejected = m.counterVec("evaluations_rejected_total", "Evaluations rejected at intake by reason", "reason")
	m.evaluationsScored = m.counter("evaluations_scored_total", "Evaluations scored and stored")
	m.scoringLatency = m.histogram("latency_milliseconds", "Time spent scoring one evaluation", m.histogramBuckets)
	m.ovr = m.histogram("ovr", "Distribution of computed overall ratings", ovrBuckets)
	m.fallbacks = m.counterVec("normalization_fallbacks_total", "Normalizations that took a fallback path by kind", "kind")
	m.skippedAnswers = m.counter("skipped_answers_total", "Answers ignored because the test id is unknown")

	m.queueSize = m.gauge("queue_size", "Evaluations waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum evaluations the queue holds")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Failed enqueue attempts by reason", "reason")

	m.workerCount = m.gauge("worker_count", "Running scoring workers")
	m.workerErrors = m.counter("worker_errors_total", "Evaluations a worker failed to store")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker time per evaluation including storage", m.histogramBuckets)

	m.storePlayers = m.gauge("store_players", "Players with at least one evaluation")
	m.storeEvaluations = m.gauge("store_evaluations", "Evaluations held in the history store")
	m.storeAppendLatency = m.histogram("store_append_latency_milliseconds", "History store append latency", m.histogramBuckets)

	labels := []string{"endpoint", "method", "status_code"}
	m.httpRequests = promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, labels)
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, labels)
}

// RegisterRuntimeCollectors adds Go runtime and process collectors to the
// global registry. Calling it twice returns the registration error.
func RegisterRuntimeCollectors() error {
	if err := customRegistry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	return customRegistry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global helpers.

func RecordEvaluationAccepted()  { globalManager.evaluationsAccepted.Inc() }
func RecordEvaluationDuplicate() { globalManager.evaluationsDuplicate.Inc() }

// RecordEvaluationRejected counts an intake rejection, e.g. "invalid" or "queue_full".
func RecordEvaluationRejected(reason string) {
	globalManager.evaluationsRejected.WithLabelValues(reason).Inc()
}

// RecordEvaluationScored records a stored evaluation with its OVR.
func RecordEvaluationScored(ovr int) {
	globalManager.evaluationsScored.Inc()
	globalManager.ovr.Observe(float64(ovr))
}

func RecordScoringLatency(latencyMs float64) { globalManager.scoringLatency.Observe(latencyMs) }

// RecordFallback counts a normalization fallback of the given kind.
func RecordFallback(kind string) { globalManager.fallbacks.WithLabelValues(kind).Inc() }

func RecordSkippedAnswers(n int) { globalManager.skippedAnswers.Add(float64(n)) }

func UpdateQueueSize(size int)         { globalManager.queueSize.Set(float64(size)) }
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueueError counts an enqueue that did not happen.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }
func RecordWorkerError()          { globalManager.workerErrors.Inc() }

func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// UpdateStoreSize publishes the history store size.
func UpdateStoreSize(players, evaluations int) {
	globalManager.storePlayers.Set(float64(players))
	globalManager.storeEvaluations.Set(float64(evaluations))
}

func RecordStoreAppendLatency(latencyMs float64) { globalManager.storeAppendLatency.Observe(latencyMs) }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}
