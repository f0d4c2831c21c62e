package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

// SetEmbedding stores the person's embedding together with its metadata record.
func (r *PeopleRepository) SetEmbedding(
	ctx context.Context, id uuid.UUID, embedding []float32, meta models.EmbeddingMetadata,
) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE people SET embedding = $1, embedding_metadata = $2, updated_at = now()
		WHERE id = $3 AND deleted = FALSE`,
		pgvector.NewVector(embedding), meta, id,
	)
	if err != nil {
		return dbError("set person embedding", err)
	}

	if tag.RowsAffected() == 0 {
		return huberrors.NewNotFoundError("person", "Person not found")
	}

	return nil
}

// ListMissingEmbeddings pages over non-deleted people whose embedding is NULL, oldest first.
func (r *PeopleRepository) ListMissingEmbeddings(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM people
		WHERE embedding IS NULL AND deleted = FALSE
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, dbError("list people missing embeddings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, dbError("scan person id", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating missing embeddings", err)
	}

	return ids, nil
}

// MatchPeople returns people whose embedding has cosine similarity >= threshold with
// queryEmbedding, most similar first, excluding excludeID and soft-deleted people.
// similarity = 1 - cosine distance (<=>).
func (r *PeopleRepository) MatchPeople(
	ctx context.Context, queryEmbedding []float32, threshold float64, limit int, excludeID uuid.UUID,
) ([]models.PersonMatch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, title, company, intros_sought, reasons_to_introduce,
			(1 - (embedding <=> $1)) AS similarity
		FROM people
		WHERE embedding IS NOT NULL AND deleted = FALSE AND id <> $2
			AND (1 - (embedding <=> $1)) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4`,
		pgvector.NewVector(queryEmbedding), excludeID, threshold, limit,
	)
	if err != nil {
		return nil, dbError("match people", err)
	}
	defer rows.Close()

	var matches []models.PersonMatch

	for rows.Next() {
		var m models.PersonMatch
		if err := rows.Scan(&m.ID, &m.Name, &m.Title, &m.Company, &m.IntrosSought, &m.ReasonsToIntroduce, &m.Similarity); err != nil {
			return nil, dbError("scan person match", err)
		}

		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating person matches", err)
	}

	return matches, nil
}
