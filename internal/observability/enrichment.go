package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EnrichmentMetrics records profile enrichment runs and provider lookups.
type EnrichmentMetrics interface {
	RecordEnrichment(ctx context.Context, mode, outcome string, duration time.Duration)
	RecordLookup(ctx context.Context, outcome string)
}

type enrichmentMetrics struct {
	runs     metric.Int64Counter
	duration metric.Float64Histogram
	lookups  metric.Int64Counter
}

// NewEnrichmentMetrics creates EnrichmentMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewEnrichmentMetrics(meter metric.Meter) (EnrichmentMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	runs, err := meter.Int64Counter(
		MetricNameEnrichments,
		metric.WithDescription("Total enrichment runs by mode and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enrichments counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		MetricNameEnrichmentDuration,
		metric.WithDescription("Enrichment run duration including provider and LLM calls (seconds)"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enrichment duration histogram: %w", err)
	}

	lookups, err := meter.Int64Counter(
		MetricNameEnrichmentLookups,
		metric.WithDescription("LinkedIn provider lookups by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enrichment lookups counter: %w", err)
	}

	return &enrichmentMetrics{runs: runs, duration: duration, lookups: lookups}, nil
}

func (e *enrichmentMetrics) RecordEnrichment(ctx context.Context, mode, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMode, NormalizeMode(mode)),
		attribute.String(AttrStatus, NormalizeReason(outcome, AllowedEnrichmentOutcomes)),
	)
	e.runs.Add(ctx, 1, attrs)
	e.duration.Record(ctx, duration.Seconds(), attrs)
}

func (e *enrichmentMetrics) RecordLookup(ctx context.Context, outcome string) {
	e.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, NormalizeReason(outcome, AllowedLookupOutcomes)),
	))
}
