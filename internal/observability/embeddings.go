package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EmbeddingMetrics covers person embeddings end to end: jobs enqueued from person events,
// single generations (worker or POST /v1/embeddings) and batch runs.
type EmbeddingMetrics interface {
	RecordJobsEnqueued(ctx context.Context, count int64)
	RecordEnqueueError(ctx context.Context)
	RecordEmbedding(ctx context.Context, status string, duration time.Duration)
	RecordWorkerError(ctx context.Context, reason string)
	RecordBatch(ctx context.Context, succeeded, failed int)
}

type embeddingMetrics struct {
	jobsEnqueued  metric.Int64Counter
	enqueueErrors metric.Int64Counter
	outcomes      metric.Int64Counter
	workerErrors  metric.Int64Counter
	duration      metric.Float64Histogram
	batchItems    metric.Int64Counter
}

// NewEmbeddingMetrics creates EmbeddingMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewEmbeddingMetrics(meter metric.Meter) (EmbeddingMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	m := &embeddingMetrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.jobsEnqueued, MetricNameEmbeddingJobsEnqueued, "Embedding jobs enqueued after a person was upserted or updated."},
		{&m.enqueueErrors, MetricNameEmbeddingEnqueueErrors, "Embedding jobs that could not be inserted into River."},
		{&m.outcomes, MetricNameEmbeddingOutcomes, "Person embeddings generated, by status."},
		{&m.workerErrors, MetricNameEmbeddingWorkerErrors, "Embedding failures by reason (load person, provider call, store, panic)."},
		{&m.batchItems, MetricNameEmbeddingBatchItems, "People processed by batch embedding runs, by status."},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("create %s counter: %w", c.name, err)
		}

		*c.dst = counter
	}

	duration, err := meter.Float64Histogram(
		MetricNameEmbeddingDuration,
		metric.WithDescription("Time to load a person, call the embedding model and store the vector."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding duration histogram: %w", err)
	}

	m.duration = duration

	return m, nil
}

func (e *embeddingMetrics) RecordJobsEnqueued(ctx context.Context, count int64) {
	e.jobsEnqueued.Add(ctx, count)
}

func (e *embeddingMetrics) RecordEnqueueError(ctx context.Context) {
	e.enqueueErrors.Add(ctx, 1)
}

func (e *embeddingMetrics) RecordEmbedding(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrStatus, normalizeEmbeddingStatus(status)))

	e.outcomes.Add(ctx, 1, attrs)
	e.duration.Record(ctx, duration.Seconds(), attrs)
}

func (e *embeddingMetrics) RecordWorkerError(ctx context.Context, reason string) {
	reason = NormalizeReason(reason, AllowedEmbeddingWorkerReason)
	e.workerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrReason, reason)))
}

func (e *embeddingMetrics) RecordBatch(ctx context.Context, succeeded, failed int) {
	if succeeded > 0 {
		e.batchItems.Add(ctx, int64(succeeded), metric.WithAttributes(attribute.String(AttrStatus, "success")))
	}

	if failed > 0 {
		e.batchItems.Add(ctx, int64(failed), metric.WithAttributes(attribute.String(AttrStatus, "failed")))
	}
}

func normalizeEmbeddingStatus(status string) string {
	if AllowedEmbeddingOutcomeStatus(status) {
		return status
	}

	return "other"
}
