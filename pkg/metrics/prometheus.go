// Package metrics provides Prometheus metrics for the gutscore engine.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// scoreBuckets cover the 0-10 score range in half-point steps.
var scoreBuckets = prometheus.LinearBuckets(0, 0.5, 21) //nolint:gochecknoglobals // fixed bucket layout

// Manager owns every collector of the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Evaluation
	evaluations       prometheus.Counter
	evaluationErrors  *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	scores            prometheus.Histogram
	scoreTiers        *prometheus.CounterVec
	recordsEvaluated  prometheus.Counter
	invalidInputs     *prometheus.CounterVec

	// Ingest
	recordsIngested   *prometheus.CounterVec
	recordsDuplicate  prometheus.Counter
	repositoryUsers   prometheus.Gauge
	repositoryRecords prometheus.Gauge
	repositoryQuery   prometheus.Histogram

	// Queue
	queueCapacity    prometheus.Gauge
	queueSize        prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueRejected    *prometheus.CounterVec
	queueUtilization prometheus.Gauge

	// Workers
	workerCount   prometheus.Gauge
	workerLatency prometheus.Histogram
	workerErrors  *prometheus.CounterVec
}

var (
	globalManager *Manager                   //nolint:gochecknoglobals // singleton used by the package-level recorders
	registry      = prometheus.NewRegistry() //nolint:gochecknoglobals // custom registry without default Go collectors
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(registry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gutscore",
		subsystem:        "engine",
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.evaluations = m.counter("evaluations_total", "Total number of completed period evaluations")
	m.evaluationErrors = m.counterVec("evaluation_errors_total", "Evaluations that failed, by reason", "reason")
	m.evaluationLatency = m.histogram("evaluation_latency_milliseconds", "Evaluation latency in milliseconds", m.histogramBuckets)
	m.scores = m.histogram("scores", "Distribution of produced bowel scores", scoreBuckets)
	m.scoreTiers = m.counterVec("score_tiers_total", "Produced scores by classification tier", "tier")
	m.recordsEvaluated = m.counter("records_evaluated_total", "Daily records consumed by evaluations")
	m.invalidInputs = m.counterVec("invalid_inputs_total", "Inputs rejected by calculators, by kind", "kind")

	m.recordsIngested = m.counterVec("records_ingested_total", "Records accepted by the store, by kind", "kind")
	m.recordsDuplicate = m.counter("records_duplicate_total", "Records skipped because their id was already ingested")
	m.repositoryUsers = m.gauge("repository_users", "Users known to the record store")
	m.repositoryRecords = m.gauge("repository_records", "Records held by the record store")
	m.repositoryQuery = m.histogram("repository_query_latency_milliseconds", "Record store query latency in milliseconds", m.histogramBuckets)

	m.queueCapacity = m.gauge("queue_capacity", "Maximum job queue capacity")
	m.queueSize = m.gauge("queue_size", "Jobs currently waiting in the queue")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Jobs handed to workers")
	m.queueRejected = m.counterVec("queue_rejected_total", "Jobs rejected by the queue, by reason", "reason")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")

	m.workerCount = m.gauge("worker_count", "Workers in the evaluation pool")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Job processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counterVec("worker_errors_total", "Worker failures, by stage", "stage")
}

func current() *Manager {
	return globalManager
}

// RecordEvaluation records a completed evaluation of n records.
func RecordEvaluation(score float64, tier string, records int, latencyMs float64) {
	m := current()
	m.evaluations.Inc()
	m.scores.Observe(score)
	m.scoreTiers.WithLabelValues(tier).Inc()
	m.recordsEvaluated.Add(float64(records))
	m.evaluationLatency.Observe(latencyMs)
}

// RecordEvaluationError records a failed evaluation.
func RecordEvaluationError(reason string) {
	current().evaluationErrors.WithLabelValues(reason).Inc()
}

// RecordInvalidInput records a calculator input rejected as non-physical.
func RecordInvalidInput(kind string) {
	current().invalidInputs.WithLabelValues(kind).Inc()
}

// RecordIngested records a record accepted by the store.
func RecordIngested(kind string) {
	current().recordsIngested.WithLabelValues(kind).Inc()
}

// RecordDuplicate records a record skipped by id.
func RecordDuplicate() {
	current().recordsDuplicate.Inc()
}

// UpdateRepositorySize sets the record store size gauges.
func UpdateRepositorySize(users, records int) {
	m := current()
	m.repositoryUsers.Set(float64(users))
	m.repositoryRecords.Set(float64(records))
}

// RecordRepositoryQueryLatency records a record store query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	current().repositoryQuery.Observe(latencyMs)
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	current().queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	m := current()
	m.queueSize.Set(float64(size))
	if capacity > 0 {
		m.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	current().queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	current().queueDequeued.Inc()
}

// RecordQueueRejected records a job the queue refused.
func RecordQueueRejected(reason string) {
	current().queueRejected.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the pool size.
func UpdateWorkerCount(count int) {
	current().workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records the latency of one job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	current().workerLatency.Observe(latencyMs)
}

// RecordWorkerError records a worker failure at the given stage.
func RecordWorkerError(stage string) {
	current().workerErrors.WithLabelValues(stage).Inc()
}

// GetRegistry returns the registry holding the package-level collectors.
func GetRegistry() *prometheus.Registry {
	return registry
}

// WriteText renders every metric family of g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("%w: gather: %w", ErrExport, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrExport, mf.GetName(), err)
		}
	}
	return nil
}
