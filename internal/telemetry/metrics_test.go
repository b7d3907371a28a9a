package telemetry_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ksnll/mithrilforge/internal/events"
	"github.com/ksnll/mithrilforge/internal/telemetry"
)

func TestPipelineFinished(t *testing.T) {
	m := telemetry.NewMetrics(prometheus.NewRegistry())

	m.PipelineFinished("", 2*time.Second)
	m.PipelineFinished("fetch", time.Second)
	m.PipelineFinished("fetch", time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(telemetry.OutcomeSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(telemetry.OutcomeFailure)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.PipelineStageFailures.WithLabelValues("fetch")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.PipelineDuration))
}

func TestBusInstrumentation(t *testing.T) {
	m := telemetry.NewMetrics(prometheus.NewRegistry())
	bus := events.NewBus(events.WithCapacity(1), events.WithMetrics(m))

	sub := bus.Subscribe()
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventSubscribers), 0)

	_, _ = bus.Publish(events.FetchingContact{})
	_, _ = bus.Publish(events.FetchingContact{})

	assert.InDelta(t, 2, testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues(events.TypeFetchingContact)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsDroppedTotal), 0)

	sub.Close()
	assert.InDelta(t, 0, testutil.ToFloat64(m.EventSubscribers), 0)
}
