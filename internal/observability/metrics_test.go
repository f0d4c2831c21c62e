package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"

	"github.com/networkbrain/brain/internal/config"
)

func TestNormalizeEventType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"person.upserted", "person.upserted"},
		{"person.profile_updated", "person.profile_updated"},
		{"person.deleted", "person.deleted"},
		{"", "unknown"},
		{"feedback_record.created", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEventType(tt.input))
		})
	}
}

func TestNormalizeReason(t *testing.T) {
	assert.Equal(t, "llm_error", NormalizeReason("llm_error", AllowedEnrichmentOutcomes))
	assert.Equal(t, "other", NormalizeReason("timeout", AllowedEnrichmentOutcomes))
	assert.Equal(t, "system_prompt", NormalizeCacheName("system_prompt"))
	assert.Equal(t, "other", NormalizeCacheName("webhook_list"))
	assert.Equal(t, "timeline", NormalizeMode("timeline"))
	assert.Equal(t, "other", NormalizeMode("custom"))
}

func TestNewMetrics_NilMeter(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}

	return out
}

func TestNewMetrics_Records(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	m.Enrichment.RecordEnrichment(ctx, "profile", "success", 2*time.Second)
	m.Introductions.RecordCreated(ctx, 3)
	m.Cache.RecordLookup(ctx, "system_prompt", true)
	m.Cache.RecordLookup(ctx, "system_prompt", false)
	m.Events.RecordEventPublished(ctx, "person.upserted")
	m.Events.SetChannelDepth(7)
	m.Embeddings.RecordBatch(ctx, 2, 1)
	m.Embeddings.RecordWorkerError(ctx, "panic")

	data := collect(t, reader)

	runs, ok := data[MetricNameEnrichments].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, runs.DataPoints, 1)
	assert.Equal(t, int64(1), runs.DataPoints[0].Value)

	created, ok := data[MetricNameIntroductionsCreated].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(3), created.DataPoints[0].Value)

	depth, ok := data[MetricNameEventChannelDepth].(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(7), depth.DataPoints[0].Value)

	lookups, ok := data[MetricNameCacheLookups].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, lookups.DataPoints, 2)

	published, ok := data[MetricNameEventsPublished].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), published.DataPoints[0].Value)

	batch, ok := data[MetricNameEmbeddingBatchItems].(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range batch.DataPoints {
		total += dp.Value
	}

	assert.Equal(t, int64(3), total)

	workerErrors, ok := data[MetricNameEmbeddingWorkerErrors].(metricdata.Sum[int64])
	require.True(t, ok)

	reason, _ := workerErrors.DataPoints[0].Attributes.Value(AttrReason)
	assert.Equal(t, "panic", reason.AsString())
}

func TestNewMeterProvider(t *testing.T) {
	mp, err := NewMeterProvider(&config.Config{MetricsExporter: ""})
	require.NoError(t, err)
	assert.Nil(t, mp)

	mp, err = NewMeterProvider(&config.Config{MetricsExporter: "prometheus", ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, mp)
	assert.NotNil(t, mp.Handler)
	require.NoError(t, ShutdownMeterProvider(context.Background(), mp))
}

func TestNewResource(t *testing.T) {
	res, err := newResource("brain-test")
	require.NoError(t, err)

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "brain-test", name.AsString())
	assert.Equal(t, semconv.SchemaURL, res.SchemaURL())
}

func TestNewTracerProvider_Stdout(t *testing.T) {
	tp, err := NewTracerProvider(&config.Config{TracesExporter: "stdout", ServiceName: "brain-test"})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, ShutdownTracerProvider(context.Background(), tp))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(&config.Config{TracesExporter: "zipkin"})
	require.NoError(t, err)
	assert.Nil(t, tp)
	require.NoError(t, ShutdownTracerProvider(context.Background(), nil))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name, arg string
		want      string
	}{
		{"always_on", "", "AlwaysOnSampler"},
		{"always_off", "", "AlwaysOffSampler"},
		{"traceidratio", "0.25", "TraceIDRatioBased{0.25}"},
		{"traceidratio", "7", "AlwaysOnSampler"},
		{"", "", "ParentBased{root:AlwaysOnSampler"},
		{"jaeger_remote", "", "ParentBased{root:AlwaysOnSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			assert.Contains(t, newSampler(tt.name, tt.arg).Description(), tt.want)
		})
	}
}

func TestEndSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "enrichment.llm")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { EndSpan(span, errors.New("rate limited")) })
}
