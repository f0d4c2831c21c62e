package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

// SystemPromptsRepository handles data access for the system_prompts table.
type SystemPromptsRepository struct {
	db *pgxpool.Pool
}

// NewSystemPromptsRepository creates a new system prompts repository.
func NewSystemPromptsRepository(db *pgxpool.Pool) *SystemPromptsRepository {
	return &SystemPromptsRepository{db: db}
}

// GetByKey returns the prompt stored under key.
func (r *SystemPromptsRepository) GetByKey(ctx context.Context, key string) (*models.SystemPrompt, error) {
	var p models.SystemPrompt

	err := r.db.QueryRow(ctx,
		`SELECT key, name, prompt, updated_at FROM system_prompts WHERE key = $1`, key,
	).Scan(&p.Key, &p.Name, &p.Prompt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huberrors.NewNotFoundError("system prompt", "System prompt not found: "+key)
		}

		return nil, dbError("get system prompt", err)
	}

	return &p, nil
}

// List returns all prompts ordered by key.
func (r *SystemPromptsRepository) List(ctx context.Context) ([]models.SystemPrompt, error) {
	rows, err := r.db.Query(ctx, `SELECT key, name, prompt, updated_at FROM system_prompts ORDER BY key`)
	if err != nil {
		return nil, dbError("list system prompts", err)
	}
	defer rows.Close()

	prompts := []models.SystemPrompt{}

	for rows.Next() {
		var p models.SystemPrompt
		if err := rows.Scan(&p.Key, &p.Name, &p.Prompt, &p.UpdatedAt); err != nil {
			return nil, dbError("scan system prompt", err)
		}

		prompts = append(prompts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating system prompts", err)
	}

	return prompts, nil
}

// Upsert creates or replaces the prompt stored under key.
func (r *SystemPromptsRepository) Upsert(ctx context.Context, key, name, prompt string) (*models.SystemPrompt, error) {
	var p models.SystemPrompt

	err := r.db.QueryRow(ctx, `
		INSERT INTO system_prompts (key, name, prompt)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name, prompt = EXCLUDED.prompt, updated_at = now()
		RETURNING key, name, prompt, updated_at`, key, name, prompt,
	).Scan(&p.Key, &p.Name, &p.Prompt, &p.UpdatedAt)
	if err != nil {
		return nil, dbError("upsert system prompt", err)
	}

	return &p, nil
}
