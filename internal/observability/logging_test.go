package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceContextHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))
	personID := uuid.New()

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = ContextWithPersonID(ctx, personID)

	logger.InfoContext(ctx, "enrichment: done")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, personID.String(), rec["person_id"])
	assert.NotContains(t, rec, "trace_id")
}

func TestPersonIDFromContext_Nil(t *testing.T) {
	_, ok := PersonIDFromContext(ContextWithPersonID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	_, ok = PersonIDFromContext(context.Background())
	assert.False(t, ok)
}
