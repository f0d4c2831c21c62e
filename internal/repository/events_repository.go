package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/models"
)

// EventsRepository handles data access for events and their attendees.
type EventsRepository struct {
	db *pgxpool.Pool
}

// NewEventsRepository creates a new events repository.
func NewEventsRepository(db *pgxpool.Pool) *EventsRepository {
	return &EventsRepository{db: db}
}

// ListByPerson returns events the person attended, most recent start first.
func (r *EventsRepository) ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.title, e.description, e.location, e.start_time, e.end_time, e.source, e.external_id, e.created_at
		FROM events e
		INNER JOIN event_attendees a ON a.event_id = e.id
		WHERE a.person_id = $1
		ORDER BY e.start_time DESC, e.id
		LIMIT $2 OFFSET $3`, personID, limit, offset)
	if err != nil {
		return nil, dbError("list events", err)
	}
	defer rows.Close()

	events := []models.Event{}

	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime,
			&e.Source, &e.ExternalID, &e.CreatedAt); err != nil {
			return nil, dbError("scan event", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, dbError("iterating events", err)
	}

	return events, nil
}

// Upsert inserts or updates an event by external ID and links attendees whose email
// matches a non-deleted person. Both statements run in one transaction.
// Returns the event and the number of newly linked attendees.
func (r *EventsRepository) Upsert(ctx context.Context, in models.UpsertEventInput) (*models.Event, int, error) {
	var (
		e      models.Event
		linked int
	)

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO events (title, description, location, start_time, end_time, source, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (external_id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				location = EXCLUDED.location,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time
			RETURNING id, title, description, location, start_time, end_time, source, external_id, created_at`,
			in.Title, in.Description, in.Location, in.StartTime, in.EndTime, in.Source, in.ExternalID,
		).Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime, &e.Source, &e.ExternalID, &e.CreatedAt)
		if err != nil {
			return err
		}

		if len(in.AttendeeEmails) == 0 {
			return nil
		}

		emails := make([]string, len(in.AttendeeEmails))
		for i, addr := range in.AttendeeEmails {
			emails[i] = strings.ToLower(addr)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO event_attendees (event_id, person_id)
			SELECT $1, p.id FROM people p
			WHERE p.email = ANY($2) AND p.deleted = FALSE
			ON CONFLICT DO NOTHING`, e.ID, emails)
		if err != nil {
			return err
		}

		linked = int(tag.RowsAffected())

		return nil
	})
	if err != nil {
		return nil, 0, dbError("upsert event", err)
	}

	return &e, linked, nil
}
