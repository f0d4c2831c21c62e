package models

import (
	"time"

	"github.com/google/uuid"
)

// TimelineType selects which kind of items a timeline query returns.
type TimelineType string

// Timeline types.
const (
	TimelineNotes  TimelineType = "notes"
	TimelineEvents TimelineType = "events"
)

// TimelineItem is one note or event on a person's timeline.
type TimelineItem struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Date    time.Time `json:"date"`
	Title   string    `json:"title,omitempty"`
	Content string    `json:"content,omitempty"`
	Source  string    `json:"source,omitempty"`
}

// TimelineQuery is the query of GET /v1/timeline. Page is 1-based.
type TimelineQuery struct {
	PersonID uuid.UUID    `form:"personId" validate:"required"`
	Page     int          `form:"page" validate:"omitempty,min=1,max=10000"`
	PageSize int          `form:"pageSize" validate:"omitempty,min=1,max=100"`
	Type     TimelineType `form:"type" validate:"required,oneof=notes events"`
}

// Timeline page defaults.
const (
	DefaultTimelinePageSize = 20
	MaxTimelinePage         = 10000
)

// NoteTimelineItem converts a note into a timeline item.
func NoteTimelineItem(n Note) TimelineItem {
	return TimelineItem{
		ID:      n.ID,
		Kind:    "note",
		Date:    n.CreatedAt,
		Content: n.Content,
		Source:  string(n.Source),
	}
}

// EventTimelineItem converts an event into a timeline item.
func EventTimelineItem(e Event) TimelineItem {
	return TimelineItem{
		ID:      e.ID,
		Kind:    "event",
		Date:    e.StartTime,
		Title:   e.Title,
		Content: StringValue(e.Description),
		Source:  string(e.Source),
	}
}
