package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IntroductionMetrics records matcher runs and the introductions they create.
type IntroductionMetrics interface {
	RecordRun(ctx context.Context, status string)
	RecordCreated(ctx context.Context, count int)
}

type introductionMetrics struct {
	runs    metric.Int64Counter
	created metric.Int64Counter
}

// NewIntroductionMetrics creates IntroductionMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewIntroductionMetrics(meter metric.Meter) (IntroductionMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	runs, err := meter.Int64Counter(
		MetricNameIntroductionRuns,
		metric.WithDescription("Introduction matcher runs by status (matched, no_matches, no_embedding)"),
	)
	if err != nil {
		return nil, fmt.Errorf("create introduction runs counter: %w", err)
	}

	created, err := meter.Int64Counter(
		MetricNameIntroductionsCreated,
		metric.WithDescription("Introductions inserted by the matcher"),
	)
	if err != nil {
		return nil, fmt.Errorf("create introductions created counter: %w", err)
	}

	return &introductionMetrics{runs: runs, created: created}, nil
}

func (m *introductionMetrics) RecordRun(ctx context.Context, status string) {
	switch status {
	case "matched", "no_matches", "no_embedding":
	default:
		status = "other"
	}

	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
}

func (m *introductionMetrics) RecordCreated(ctx context.Context, count int) {
	m.created.Add(ctx, int64(count))
}
