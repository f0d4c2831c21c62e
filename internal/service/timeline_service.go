package service

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/models"
)

const maxTimelinePageSize = 100

// TimelineNotesRepository reads a person's notes, newest first.
type TimelineNotesRepository interface {
	ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Note, error)
}

// TimelineEventsRepository reads the events a person attended, newest first.
type TimelineEventsRepository interface {
	ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Event, error)
}

// PersonGetter loads one non-deleted person.
type PersonGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
}

// TimelineService pages through a person's notes or events.
type TimelineService struct {
	people PersonGetter
	notes  TimelineNotesRepository
	events TimelineEventsRepository
}

// NewTimelineService creates a TimelineService.
func NewTimelineService(people PersonGetter, notes TimelineNotesRepository, events TimelineEventsRepository) *TimelineService {
	return &TimelineService{people: people, notes: notes, events: events}
}

// GetTimeline returns one page of the person's notes or events as timeline items.
// Page is 1-based and capped at models.MaxTimelinePage; page size defaults to 20 and is capped at 100.
func (s *TimelineService) GetTimeline(ctx context.Context, q *models.TimelineQuery) ([]models.TimelineItem, error) {
	if _, err := s.people.Get(ctx, q.PersonID); err != nil {
		return nil, err
	}

	page := min(max(q.Page, 1), models.MaxTimelinePage)

	size := q.PageSize
	if size <= 0 {
		size = models.DefaultTimelinePageSize
	}

	if size > maxTimelinePageSize {
		size = maxTimelinePageSize
	}

	offset := (page - 1) * size

	switch q.Type {
	case models.TimelineEvents:
		events, err := s.events.ListByPerson(ctx, q.PersonID, size, offset)
		if err != nil {
			return nil, err
		}

		items := make([]models.TimelineItem, 0, len(events))
		for _, e := range events {
			items = append(items, models.EventTimelineItem(e))
		}

		return items, nil
	default:
		notes, err := s.notes.ListByPerson(ctx, q.PersonID, size, offset)
		if err != nil {
			return nil, err
		}

		items := make([]models.TimelineItem, 0, len(notes))
		for _, n := range notes {
			items = append(items, models.NoteTimelineItem(n))
		}

		return items, nil
	}
}

// Recent merges the person's latest notes and events and returns the n newest items.
func (s *TimelineService) Recent(ctx context.Context, personID uuid.UUID, n int) ([]models.TimelineItem, error) {
	notes, err := s.notes.ListByPerson(ctx, personID, n, 0)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByPerson(ctx, personID, n, 0)
	if err != nil {
		return nil, err
	}

	items := make([]models.TimelineItem, 0, len(notes)+len(events))
	for _, note := range notes {
		items = append(items, models.NoteTimelineItem(note))
	}

	for _, e := range events {
		items = append(items, models.EventTimelineItem(e))
	}

	slices.SortStableFunc(items, func(a, b models.TimelineItem) int {
		return b.Date.Compare(a.Date)
	})

	if len(items) > n {
		items = items[:n]
	}

	return items, nil
}
