// Package repository provides Postgres data access for people, notes, events,
// communities, introductions, system prompts and calendar connections.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

// errEmbeddingScanInvalidType is returned when Scan receives a type other than []byte.
var errEmbeddingScanInvalidType = errors.New("embedding: expected []byte")

// nullableEmbedding scans a vector column that may be NULL without panicking (pgvector.Vector.Scan panics on empty/NULL).
type nullableEmbedding []float32

func (n *nullableEmbedding) Scan(src any) error {
	if src == nil {
		*n = nil

		return nil
	}

	buf, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("%w: got %T", errEmbeddingScanInvalidType, src)
	}

	if len(buf) == 0 {
		*n = nil

		return nil
	}

	var vec pgvector.Vector

	if err := vec.DecodeBinary(buf); err != nil {
		return fmt.Errorf("embedding decode: %w", err)
	}

	*n = vec.Slice()

	return nil
}

// dbError marks a datastore failure so handlers can pass the message through as a 500.
func dbError(op string, err error) error {
	return huberrors.NewUpstreamError("database", fmt.Errorf("%s: %w", op, err))
}

const personColumns = `id, name, email, phone, linkedin_url, title, company, location,
	summary, detailed_summary, skills, interests, intros_sought, reasons_to_introduce,
	application_metadata, embedding, embedding_metadata, created_at, updated_at`

func scanPerson(row pgx.Row) (*models.Person, error) {
	var (
		p   models.Person
		emb nullableEmbedding
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.LinkedInURL, &p.Title, &p.Company, &p.Location,
		&p.Summary, &p.DetailedSummary, &p.Skills, &p.Interests, &p.IntrosSought, &p.ReasonsToIntroduce,
		&p.ApplicationMetadata, &emb, &p.EmbeddingMetadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Embedding = emb
	p.HasEmbedding = len(emb) > 0

	return &p, nil
}

// PeopleRepository handles data access for the people table.
type PeopleRepository struct {
	db *pgxpool.Pool
}

// NewPeopleRepository creates a new people repository.
func NewPeopleRepository(db *pgxpool.Pool) *PeopleRepository {
	return &PeopleRepository{db: db}
}

// Get returns a person by ID. Soft-deleted people are reported as not found.
func (r *PeopleRepository) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1 AND deleted = FALSE`

	person, err := scanPerson(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huberrors.NewNotFoundError("person", "Person not found")
		}

		return nil, dbError("get person", err)
	}

	return person, nil
}

// SoftDelete marks a person deleted. Their notes, events and introductions are kept.
func (r *PeopleRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE people SET deleted = TRUE, updated_at = now() WHERE id = $1 AND deleted = FALSE`, id)
	if err != nil {
		return dbError("delete person", err)
	}

	if tag.RowsAffected() == 0 {
		return huberrors.NewNotFoundError("person", "Person not found")
	}

	return nil
}

// buildContactUpdate builds the SET clause for the non-nil fields of u.
// Returns an empty query when nothing changes.
func buildContactUpdate(id uuid.UUID, u models.ContactUpdate) (string, []any) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value *string) {
		if value == nil {
			return
		}

		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("name", u.Name)
	add("title", u.Title)
	add("company", u.Company)
	add("location", u.Location)
	add("linkedin_url", u.LinkedInURL)

	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE people SET %s, updated_at = now() WHERE id = $%d AND deleted = FALSE",
		strings.Join(sets, ", "), len(args))

	return query, args
}

// UpdateContact applies provider-sourced contact changes.
func (r *PeopleRepository) UpdateContact(ctx context.Context, id uuid.UUID, u models.ContactUpdate) error {
	query, args := buildContactUpdate(id, u)
	if query == "" {
		return nil
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dbError("update person contact", err)
	}

	if tag.RowsAffected() == 0 {
		return huberrors.NewNotFoundError("person", "Person not found")
	}

	return nil
}

// UpdateProfile writes LLM-generated profile fields. Skills and interests are kept when nil.
func (r *PeopleRepository) UpdateProfile(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE people SET
			summary = $1,
			detailed_summary = $2,
			intros_sought = $3,
			reasons_to_introduce = $4,
			skills = COALESCE($5, skills),
			interests = COALESCE($6, interests),
			updated_at = now()
		WHERE id = $7 AND deleted = FALSE`,
		u.Summary, u.DetailedSummary, u.IntrosSought, u.ReasonsToIntroduce, u.Skills, u.Interests, id,
	)
	if err != nil {
		return dbError("update person profile", err)
	}

	if tag.RowsAffected() == 0 {
		return huberrors.NewNotFoundError("person", "Person not found")
	}

	return nil
}

// UpsertByEmail inserts a person or updates the existing one with the same email.
// Optional fields only overwrite when provided; a soft-deleted person is restored.
func (r *PeopleRepository) UpsertByEmail(ctx context.Context, in models.UpsertPersonInput) (*models.Person, error) {
	query := `
		INSERT INTO people (name, email, phone, linkedin_url, title, company, location, application_metadata)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = COALESCE(EXCLUDED.phone, people.phone),
			linkedin_url = COALESCE(EXCLUDED.linkedin_url, people.linkedin_url),
			title = COALESCE(EXCLUDED.title, people.title),
			company = COALESCE(EXCLUDED.company, people.company),
			location = COALESCE(EXCLUDED.location, people.location),
			application_metadata = COALESCE(EXCLUDED.application_metadata, people.application_metadata),
			deleted = FALSE,
			updated_at = now()
		RETURNING ` + personColumns

	person, err := scanPerson(r.db.QueryRow(ctx, query,
		in.Name, in.Email, in.Phone, in.LinkedInURL, in.Title, in.Company, in.Location, in.ApplicationMetadata,
	))
	if err != nil {
		return nil, dbError("upsert person", err)
	}

	return person, nil
}

// IDsByEmail returns the IDs of non-deleted people whose email is in emails,
// keyed by lower-cased email.
func (r *PeopleRepository) IDsByEmail(ctx context.Context, emails []string) (map[string]uuid.UUID, error) {
	if len(emails) == 0 {
		return map[string]uuid.UUID{}, nil
	}

	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}

	rows, err := r.db.Query(ctx,
		`SELECT email, id FROM people WHERE email = ANY($1) AND deleted = FALSE`, lowered)
	if err != nil {
		return nil, dbError("people by email", err)
	}
	defer rows.Close()

	out := make(map[string]uuid.UUID, len(emails))

	for rows.Next() {
		var (
			email string
			id    uuid.UUID
		)

		if err := rows.Scan(&email, &id); err != nil {
			return nil, dbError("scan person email", err)
		}

		out[email] = id
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating people by email", err)
	}

	return out, nil
}
