// Package workers provides River job workers.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
	"github.com/networkbrain/brain/internal/service"
)

const personEmbeddingTimeout = 30 * time.Second

// personEmbeddingGenerator is the minimal interface needed by the worker.
type personEmbeddingGenerator interface {
	GenerateForPerson(ctx context.Context, personID uuid.UUID, additionalContext string) (*models.EmbeddingMetadata, error)
}

// PersonEmbeddingWorker regenerates a person's embedding after their profile changed.
type PersonEmbeddingWorker struct {
	river.WorkerDefaults[service.PersonEmbeddingArgs]

	generator personEmbeddingGenerator
	metrics   observability.EmbeddingMetrics
}

// NewPersonEmbeddingWorker creates the worker. metrics may be nil when metrics are disabled.
func NewPersonEmbeddingWorker(generator personEmbeddingGenerator, metrics observability.EmbeddingMetrics) *PersonEmbeddingWorker {
	return &PersonEmbeddingWorker{generator: generator, metrics: metrics}
}

// Timeout limits how long a single embedding job can run.
func (w *PersonEmbeddingWorker) Timeout(*river.Job[service.PersonEmbeddingArgs]) time.Duration {
	return personEmbeddingTimeout
}

// Work embeds the person. Deleted people and people without profile text are cancelled
// instead of retried; other failures retry until the last attempt, which is logged and dropped.
func (w *PersonEmbeddingWorker) Work(ctx context.Context, job *river.Job[service.PersonEmbeddingArgs]) error {
	personID := job.Args.PersonID
	ctx = observability.ContextWithPersonID(ctx, personID)

	_, err := w.generator.GenerateForPerson(ctx, personID, "")
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, huberrors.ErrNotFound):
		if w.metrics != nil {
			w.metrics.RecordWorkerError(ctx, "person_not_found")
		}

		slog.InfoContext(ctx, "embedding: person gone, cancelling job")

		return river.JobCancel(err)
	case errors.Is(err, huberrors.ErrValidation), errors.Is(err, huberrors.ErrConfiguration):
		slog.WarnContext(ctx, "embedding: job cannot succeed, cancelling", "error", err)

		return river.JobCancel(err)
	}

	if job.Attempt >= job.MaxAttempts {
		slog.ErrorContext(ctx, "embedding: failed (final attempt)",
			"attempt", job.Attempt,
			"error", err,
		)

		return nil
	}

	return fmt.Errorf("generate person embedding: %w", err)
}
