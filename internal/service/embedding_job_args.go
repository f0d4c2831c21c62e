package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	personEmbeddingKind = "person_embedding"
	// EmbeddingsQueueName is the River queue used for person embedding jobs.
	EmbeddingsQueueName = "embeddings"
	// uniqueByPeriodEmbedding collapses repeated edits of one person into a single job.
	uniqueByPeriodEmbedding = time.Minute
)

// EmbeddingJobInserter inserts embedding jobs (the River client in production).
type EmbeddingJobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// PersonEmbeddingArgs is the job payload for regenerating one person's embedding.
// Enqueued by EmbeddingProvider and the brainctl backfill, run by workers.PersonEmbeddingWorker.
type PersonEmbeddingArgs struct {
	PersonID uuid.UUID `json:"person_id" river:"unique"`
}

// Kind returns the River job kind.
func (PersonEmbeddingArgs) Kind() string { return personEmbeddingKind }

var _ river.JobArgs = PersonEmbeddingArgs{}

// EmbeddingInsertOpts returns the insert options shared by every enqueue path.
func EmbeddingInsertOpts(maxAttempts int) *river.InsertOpts {
	return &river.InsertOpts{
		Queue:       EmbeddingsQueueName,
		MaxAttempts: maxAttempts,
		UniqueOpts:  river.UniqueOpts{ByArgs: true, ByPeriod: uniqueByPeriodEmbedding},
	}
}
