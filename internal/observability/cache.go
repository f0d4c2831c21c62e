package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheMetrics records lookups and invalidations of in-process caches.
// The cache attribute is bounded by AllowedCacheNames.
type CacheMetrics interface {
	RecordLookup(ctx context.Context, cacheName string, hit bool)
	RecordInvalidation(ctx context.Context, cacheName string)
}

type cacheMetrics struct {
	lookups       metric.Int64Counter
	invalidations metric.Int64Counter
}

// NewCacheMetrics creates CacheMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewCacheMetrics(meter metric.Meter) (CacheMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	lookups, err := meter.Int64Counter(MetricNameCacheLookups,
		metric.WithDescription("Cache lookups by cache and result (hit or miss). "+
			"A miss loads from Postgres; concurrent misses for one key share a single load."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache lookups counter: %w", err)
	}

	invalidations, err := meter.Int64Counter(MetricNameCacheInvalidations,
		metric.WithDescription("Entries dropped because the backing row was written."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache invalidations counter: %w", err)
	}

	return &cacheMetrics{lookups: lookups, invalidations: invalidations}, nil
}

func (c *cacheMetrics) RecordLookup(ctx context.Context, cacheName string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	c.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrCache, NormalizeCacheName(cacheName)),
		attribute.String(AttrResult, result),
	))
}

func (c *cacheMetrics) RecordInvalidation(ctx context.Context, cacheName string) {
	c.invalidations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrCache, NormalizeCacheName(cacheName))))
}
