package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

const introductionColumns = `id, person_a_id, person_b_id, match_score, status, rationale, created_at`

func scanIntroduction(row pgx.Row) (*models.Introduction, error) {
	var i models.Introduction

	err := row.Scan(&i.ID, &i.PersonAID, &i.PersonBID, &i.MatchScore, &i.Status, &i.Rationale, &i.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &i, nil
}

// IntroductionsRepository handles data access for the introductions table.
type IntroductionsRepository struct {
	db *pgxpool.Pool
}

// NewIntroductionsRepository creates a new introductions repository.
func NewIntroductionsRepository(db *pgxpool.Pool) *IntroductionsRepository {
	return &IntroductionsRepository{db: db}
}

// Create inserts one introduction with status "generated".
func (r *IntroductionsRepository) Create(ctx context.Context, in models.CreateIntroductionInput) (*models.Introduction, error) {
	intro, err := scanIntroduction(r.db.QueryRow(ctx, `
		INSERT INTO introductions (person_a_id, person_b_id, match_score, status, rationale)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+introductionColumns,
		in.PersonAID, in.PersonBID, in.MatchScore, models.IntroductionGenerated, in.Rationale,
	))
	if err != nil {
		return nil, dbError("create introduction", err)
	}

	return intro, nil
}

// buildListIntroductionsQuery returns the query and args for listing a person's
// introductions in either role.
func buildListIntroductionsQuery(f *models.ListIntroductionsFilters) (string, []any) {
	args := []any{f.PersonID}
	where := "(person_a_id = $1 OR person_b_id = $1)"

	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM introductions WHERE %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		introductionColumns, where, len(args)-1, len(args))

	return query, args
}

// ListByPerson returns introductions where the person is source or target, newest first.
func (r *IntroductionsRepository) ListByPerson(
	ctx context.Context, filters *models.ListIntroductionsFilters,
) ([]models.Introduction, error) {
	query, args := buildListIntroductionsQuery(filters)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list introductions", err)
	}
	defer rows.Close()

	intros := []models.Introduction{}

	for rows.Next() {
		intro, err := scanIntroduction(rows)
		if err != nil {
			return nil, dbError("scan introduction", err)
		}

		intros = append(intros, *intro)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating introductions", err)
	}

	return intros, nil
}

// UpdateStatus sets the status of an introduction.
func (r *IntroductionsRepository) UpdateStatus(
	ctx context.Context, id uuid.UUID, status models.IntroductionStatus,
) (*models.Introduction, error) {
	intro, err := scanIntroduction(r.db.QueryRow(ctx,
		`UPDATE introductions SET status = $1 WHERE id = $2 RETURNING `+introductionColumns, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huberrors.NewNotFoundError("introduction", "Introduction not found")
		}

		return nil, dbError("update introduction", err)
	}

	return intro, nil
}
