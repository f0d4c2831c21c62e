package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
)

// EmbeddingProvider implements eventPublisher by enqueueing one River job per person event
// that may change the embedding text (PersonUpserted, PersonProfileUpdated).
type EmbeddingProvider struct {
	inserter    EmbeddingJobInserter
	enabled     bool
	maxAttempts int
	metrics     observability.EmbeddingMetrics
}

// NewEmbeddingProvider creates a provider that enqueues person_embedding jobs. When enabled is
// false (no embedding provider configured) events are ignored. metrics may be nil.
func NewEmbeddingProvider(
	inserter EmbeddingJobInserter,
	enabled bool,
	maxAttempts int,
	metrics observability.EmbeddingMetrics,
) *EmbeddingProvider {
	return &EmbeddingProvider{
		inserter:    inserter,
		enabled:     enabled,
		maxAttempts: maxAttempts,
		metrics:     metrics,
	}
}

// PublishEvent enqueues a person_embedding job for upsert and profile-update events.
func (p *EmbeddingProvider) PublishEvent(ctx context.Context, event Event) {
	if !p.enabled {
		return
	}

	if !event.Type.TriggersEmbedding() {
		return
	}

	personID := personIDFromEventData(event.Data)
	if personID == uuid.Nil {
		slog.DebugContext(ctx, "embedding: skip, event data is not a person", "event_id", event.ID)

		return
	}

	_, err := p.inserter.Insert(ctx, PersonEmbeddingArgs{PersonID: personID}, EmbeddingInsertOpts(p.maxAttempts))
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordEnqueueError(ctx)
		}

		slog.ErrorContext(ctx, "embedding: enqueue failed",
			"event_id", event.ID,
			"person_id", personID,
			"error", err,
		)

		return
	}

	slog.InfoContext(ctx, "embedding: job enqueued",
		"event_id", event.ID,
		"event_type", event.Type.String(),
		"person_id", personID,
	)

	if p.metrics != nil {
		p.metrics.RecordJobsEnqueued(ctx, 1)
	}
}

func personIDFromEventData(data any) uuid.UUID {
	switch v := data.(type) {
	case *models.Person:
		if v != nil {
			return v.ID
		}
	case uuid.UUID:
		return v
	}

	return uuid.Nil
}
