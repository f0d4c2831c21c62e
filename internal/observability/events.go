package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventMetrics covers the person-event bus: what was published or dropped, how long a fan-out
// takes, and how much work is waiting in the channel and the embeddings queue.
type EventMetrics interface {
	RecordEventPublished(ctx context.Context, eventType string)
	RecordEventDiscarded(ctx context.Context, eventType string)
	RecordFanOutDuration(ctx context.Context, duration time.Duration, eventType string)
	SetChannelDepth(depth int)
	SetEmbeddingQueueDepth(depth int)
}

type eventMetrics struct {
	published           metric.Int64Counter
	discarded           metric.Int64Counter
	fanOutDuration      metric.Float64Histogram
	channelDepth        atomic.Int64
	embeddingQueueDepth atomic.Int64
}

// NewEventMetrics creates EventMetrics and registers the depth gauges.
// Returns (nil, nil) when meter is nil (metrics disabled).
func NewEventMetrics(meter metric.Meter) (EventMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	published, err := meter.Int64Counter(
		MetricNameEventsPublished,
		metric.WithDescription("Person events accepted onto the event channel, by event type."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create events published counter: %w", err)
	}

	discarded, err := meter.Int64Counter(
		MetricNameEventsDiscarded,
		metric.WithDescription("Person events dropped because the event channel was full, by event type."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create events discarded counter: %w", err)
	}

	fanOut, err := meter.Float64Histogram(
		MetricNameFanOutDuration,
		metric.WithDescription("Time to hand one person event to every registered provider."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create fan-out duration histogram: %w", err)
	}

	m := &eventMetrics{published: published, discarded: discarded, fanOutDuration: fanOut}

	if err := observeDepth(meter, MetricNameEventChannelDepth,
		"Person events buffered and not yet fanned out.", &m.channelDepth); err != nil {
		return nil, err
	}

	if err := observeDepth(meter, MetricNameEmbeddingQueueDepth,
		"Embedding jobs waiting in River (available, retryable or scheduled).", &m.embeddingQueueDepth); err != nil {
		return nil, err
	}

	return m, nil
}

// observeDepth registers a gauge that reports the current value of v at collection time.
func observeDepth(meter metric.Meter, name, desc string, v *atomic.Int64) error {
	_, err := meter.Int64ObservableGauge(name,
		metric.WithDescription(desc),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(v.Load())

			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create %s gauge: %w", name, err)
	}

	return nil
}

func eventTypeAttr(eventType string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String(AttrEventType, NormalizeEventType(eventType)))
}

func (e *eventMetrics) RecordEventPublished(ctx context.Context, eventType string) {
	e.published.Add(ctx, 1, eventTypeAttr(eventType))
}

func (e *eventMetrics) RecordEventDiscarded(ctx context.Context, eventType string) {
	e.discarded.Add(ctx, 1, eventTypeAttr(eventType))
}

func (e *eventMetrics) RecordFanOutDuration(ctx context.Context, duration time.Duration, eventType string) {
	e.fanOutDuration.Record(ctx, duration.Seconds(), eventTypeAttr(eventType))
}

func (e *eventMetrics) SetChannelDepth(depth int) {
	e.channelDepth.Store(int64(depth))
}

func (e *eventMetrics) SetEmbeddingQueueDepth(depth int) {
	e.embeddingQueueDepth.Store(int64(depth))
}
