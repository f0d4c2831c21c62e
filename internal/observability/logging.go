package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type (
	requestIDKey struct{}
	personIDKey  struct{}
)

// RequestIDKey is the context key for the X-Request-ID value set by the RequestID middleware.
var RequestIDKey = &requestIDKey{}

// ContextWithPersonID tags ctx with the person a request or job is about, so every log
// line written under it carries person_id.
func ContextWithPersonID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, personIDKey{}, id)
}

// PersonIDFromContext returns the id set by ContextWithPersonID.
func PersonIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(personIDKey{}).(uuid.UUID)

	return id, ok && id != uuid.Nil
}

// TraceContextHandler wraps a slog.Handler and adds request_id, person_id, trace_id and
// span_id from the context when present.
type TraceContextHandler struct {
	inner slog.Handler
}

// NewTraceContextHandler wraps inner.
func NewTraceContextHandler(inner slog.Handler) *TraceContextHandler {
	return &TraceContextHandler{inner: inner}
}

// Enabled defers to the inner handler.
func (h *TraceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the context attributes and forwards the record.
func (h *TraceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}

	if id, ok := PersonIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("person_id", id.String()))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("inner handler: %w", err)
	}

	return nil
}

func (h *TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *TraceContextHandler) WithGroup(name string) slog.Handler {
	return &TraceContextHandler{inner: h.inner.WithGroup(name)}
}
