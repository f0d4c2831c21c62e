package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all metric collectors. When metrics are disabled, the struct itself is nil.
// Components accept the individual interfaces and already handle nil.
type Metrics struct {
	Events        EventMetrics
	Embeddings    EmbeddingMetrics
	Enrichment    EnrichmentMetrics
	Introductions IntroductionMetrics
	Applications  ApplicationMetrics
	Cache         CacheMetrics
	API           APIMetrics
}

// NewMetrics creates every collector from the given meter.
// Returns (nil, nil) when meter is nil (metrics disabled).
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	events, err := NewEventMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("event metrics: %w", err)
	}

	embeddings, err := NewEmbeddingMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("embedding metrics: %w", err)
	}

	enrichment, err := NewEnrichmentMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("enrichment metrics: %w", err)
	}

	introductions, err := NewIntroductionMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("introduction metrics: %w", err)
	}

	applications, err := NewApplicationMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("application metrics: %w", err)
	}

	cache, err := NewCacheMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("cache metrics: %w", err)
	}

	api, err := NewAPIMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("api metrics: %w", err)
	}

	return &Metrics{
		Events:        events,
		Embeddings:    embeddings,
		Enrichment:    enrichment,
		Introductions: introductions,
		Applications:  applications,
		Cache:         cache,
		API:           api,
	}, nil
}
