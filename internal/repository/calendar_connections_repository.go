package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/huberrors"
)

// CalendarConnectionsRepository stores OAuth tokens per connected calendar account.
// Tokens are opaque JSON here; the calendar package owns their shape.
type CalendarConnectionsRepository struct {
	db *pgxpool.Pool
}

// NewCalendarConnectionsRepository creates a new calendar connections repository.
func NewCalendarConnectionsRepository(db *pgxpool.Pool) *CalendarConnectionsRepository {
	return &CalendarConnectionsRepository{db: db}
}

// Save stores or replaces the token for account.
func (r *CalendarConnectionsRepository) Save(ctx context.Context, account string, token json.RawMessage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO calendar_connections (account, token)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET token = EXCLUDED.token, updated_at = now()`,
		account, token,
	)
	if err != nil {
		return dbError("save calendar connection", err)
	}

	return nil
}

// Get returns the stored token for account.
func (r *CalendarConnectionsRepository) Get(ctx context.Context, account string) (json.RawMessage, error) {
	var token json.RawMessage

	err := r.db.QueryRow(ctx, `SELECT token FROM calendar_connections WHERE account = $1`, account).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huberrors.NewNotFoundError("calendar connection", "Calendar account not connected: "+account)
		}

		return nil, dbError("get calendar connection", err)
	}

	return token, nil
}
