package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteSource records who wrote a note.
type NoteSource string

// Note sources.
const (
	NoteSourceManual     NoteSource = "manual"
	NoteSourceEnrichment NoteSource = "enrichment"
	NoteSourceLLM        NoteSource = "llm"
	NoteSourceCalendar   NoteSource = "calendar"
)

// Note is a free-text entry on a person's timeline.
type Note struct {
	ID        uuid.UUID  `json:"id"`
	PersonID  uuid.UUID  `json:"person_id"`
	Content   string     `json:"content"`
	Source    NoteSource `json:"source"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateNoteRequest is the body of POST /v1/people/{id}/notes.
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=20000,no_null_bytes"`
}
