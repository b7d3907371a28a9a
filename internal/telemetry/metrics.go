// Package telemetry holds the Prometheus metrics for pipelines and the event bus.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace prefixes every mithrilforge metric.
const MetricsNamespace = "mithrilforge"

// Pipeline outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics implements both the service and the bus instrumentation.
type Metrics struct {
	PipelineRuns          *prometheus.CounterVec
	PipelineStageFailures *prometheus.CounterVec
	PipelineDuration      prometheus.Histogram

	EventsPublishedTotal *prometheus.CounterVec
	EventsDroppedTotal   prometheus.Counter
	EventSubscribers     prometheus.Gauge
}

// NewMetrics registers all collectors on reg, or the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{}
	m.initPipelineMetrics(factory)
	m.initEventMetrics(factory)
	return m
}

func (m *Metrics) initPipelineMetrics(factory promauto.Factory) {
	m.PipelineRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "pipeline_runs_total",
		Help:      "Enrichment pipeline runs by outcome",
	}, []string{"outcome"})

	m.PipelineStageFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "pipeline_stage_failures_total",
		Help:      "Enrichment pipeline failures by stage",
	}, []string{"stage"})

	m.PipelineDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of enrichment pipeline runs",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
	})
}

func (m *Metrics) initEventMetrics(factory promauto.Factory) {
	m.EventsPublishedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "events_published_total",
		Help:      "Lifecycle events delivered to at least one subscriber",
	}, []string{"type"})

	m.EventsDroppedTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "events_dropped_total",
		Help:      "Events dropped from full subscriber queues",
	})

	m.EventSubscribers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "event_subscribers",
		Help:      "Currently registered event subscribers",
	})
}

// PipelineFinished records one pipeline run. An empty failedStage means success.
func (m *Metrics) PipelineFinished(failedStage string, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if failedStage != "" {
		outcome = OutcomeFailure
		m.PipelineStageFailures.WithLabelValues(failedStage).Inc()
	}
	m.PipelineRuns.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(elapsed.Seconds())
}

// EventPublished counts a delivered event.
func (m *Metrics) EventPublished(eventType string) {
	m.EventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// EventsDropped counts events lost to full subscriber queues.
func (m *Metrics) EventsDropped(n int) {
	m.EventsDroppedTotal.Add(float64(n))
}

// SetSubscribers records the current subscriber count.
func (m *Metrics) SetSubscribers(n int) {
	m.EventSubscribers.Set(float64(n))
}
