package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/spf13/cobra"

	"github.com/networkbrain/brain/internal/config"
	"github.com/networkbrain/brain/internal/repository"
	"github.com/networkbrain/brain/internal/service"
	"github.com/networkbrain/brain/pkg/database"
)

const defaultBackfillPageSize = 500

var errEmbeddingsDisabled = errors.New("EMBEDDING_PROVIDER and its API key must be set; the API would not run the jobs")

// MissingEmbeddingLister pages over people without an embedding.
type MissingEmbeddingLister interface {
	ListMissingEmbeddings(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

// RunBackfillEmbeddings implements brainctl backfill-embeddings.
func RunBackfillEmbeddings(cmd *cobra.Command, _ []string) error {
	pageSize, err := cmd.Flags().GetInt("page-size")
	if err != nil {
		return fmt.Errorf("failed to read --page-size flag: %w", err)
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to read --dry-run flag: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !cfg.EmbeddingsEnabled() && !dryRun {
		return errEmbeddingsDisabled
	}

	ctx := cmd.Context()

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithVectorTypes())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	people := repository.NewPeopleRepository(db)

	ids, err := CollectMissingEmbeddings(ctx, people, pageSize)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%d person(s) without an embedding.\n", len(ids))

		return nil
	}

	// Insert-only client: no queues or workers, the API process works the jobs.
	riverClient, err := river.NewClient(riverpgxv5.New(db), &river.Config{})
	if err != nil {
		return fmt.Errorf("create River client: %w", err)
	}

	enqueued, err := EnqueueEmbeddings(ctx, riverClient, ids, cfg.EmbeddingMaxAttempts)
	if err != nil {
		return err
	}

	slog.Info("Backfill complete", "listed", len(ids), "enqueued", enqueued)
	fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %d embedding job(s).\n", enqueued)

	return nil
}

// CollectMissingEmbeddings lists every person without an embedding before anything is enqueued,
// so workers finishing jobs mid-run cannot shift later pages.
func CollectMissingEmbeddings(ctx context.Context, lister MissingEmbeddingLister, pageSize int) ([]uuid.UUID, error) {
	if pageSize <= 0 {
		pageSize = defaultBackfillPageSize
	}

	var all []uuid.UUID

	for offset := 0; ; offset += pageSize {
		page, err := lister.ListMissingEmbeddings(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list people without embeddings: %w", err)
		}

		all = append(all, page...)

		if len(page) < pageSize {
			return all, nil
		}
	}
}

// EnqueueEmbeddings inserts one job per id. Insert errors are logged and skipped; the count of
// inserted jobs is returned. Jobs deduplicated by River's unique options are not counted.
func EnqueueEmbeddings(ctx context.Context, inserter service.EmbeddingJobInserter, ids []uuid.UUID, maxAttempts int) (int, error) {
	enqueued := 0

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return enqueued, fmt.Errorf("backfill interrupted: %w", err)
		}

		res, err := inserter.Insert(ctx, service.PersonEmbeddingArgs{PersonID: id}, service.EmbeddingInsertOpts(maxAttempts))
		if err != nil {
			slog.Error("enqueue embedding job failed", "person_id", id, "error", err)

			continue
		}

		if res != nil && res.UniqueSkippedAsDuplicate {
			continue
		}

		enqueued++
	}

	return enqueued, nil
}
