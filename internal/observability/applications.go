package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ApplicationMetrics records inbound application webhook outcomes.
type ApplicationMetrics interface {
	RecordReceived(ctx context.Context, outcome string)
}

type applicationMetrics struct {
	received metric.Int64Counter
}

// NewApplicationMetrics creates ApplicationMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewApplicationMetrics(meter metric.Meter) (ApplicationMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	received, err := meter.Int64Counter(
		MetricNameApplicationsReceived,
		metric.WithDescription("Application webhook deliveries by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create applications received counter: %w", err)
	}

	return &applicationMetrics{received: received}, nil
}

func (a *applicationMetrics) RecordReceived(ctx context.Context, outcome string) {
	a.received.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, NormalizeReason(outcome, AllowedApplicationOutcomes)),
	))
}
