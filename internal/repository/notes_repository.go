package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/models"
)

// NotesRepository handles data access for the notes table.
type NotesRepository struct {
	db *pgxpool.Pool
}

// NewNotesRepository creates a new notes repository.
func NewNotesRepository(db *pgxpool.Pool) *NotesRepository {
	return &NotesRepository{db: db}
}

// Create appends a note to a person's timeline.
func (r *NotesRepository) Create(
	ctx context.Context, personID uuid.UUID, content string, source models.NoteSource,
) (*models.Note, error) {
	var n models.Note

	err := r.db.QueryRow(ctx, `
		INSERT INTO notes (person_id, content, source)
		VALUES ($1, $2, $3)
		RETURNING id, person_id, content, source, created_at`,
		personID, content, source,
	).Scan(&n.ID, &n.PersonID, &n.Content, &n.Source, &n.CreatedAt)
	if err != nil {
		return nil, dbError("create note", err)
	}

	return &n, nil
}

// ListByPerson returns a person's notes, newest first.
func (r *NotesRepository) ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, person_id, content, source, created_at
		FROM notes
		WHERE person_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, personID, limit, offset)
	if err != nil {
		return nil, dbError("list notes", err)
	}
	defer rows.Close()

	notes := []models.Note{}

	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.PersonID, &n.Content, &n.Source, &n.CreatedAt); err != nil {
			return nil, dbError("scan note", err)
		}

		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating notes", err)
	}

	return notes, nil
}
