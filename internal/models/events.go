package models

import (
	"time"

	"github.com/google/uuid"
)

// EventSource identifies where an event came from.
type EventSource string

// Event sources.
const (
	EventSourceManual         EventSource = "manual"
	EventSourceGoogleCalendar EventSource = "google_calendar"
)

// Event is a meeting or gathering that people attended.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	Location    *string     `json:"location,omitempty"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     *time.Time  `json:"end_time,omitempty"`
	Source      EventSource `json:"source"`
	ExternalID  *string     `json:"external_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// UpsertEventInput is a calendar event keyed by ExternalID.
type UpsertEventInput struct {
	Title          string
	Description    *string
	Location       *string
	StartTime      time.Time
	EndTime        *time.Time
	Source         EventSource
	ExternalID     string
	AttendeeEmails []string
}
