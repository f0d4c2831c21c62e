package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

// PeopleRepository is the subset of the people store used for direct person access.
type PeopleRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// NotesRepository creates notes.
type NotesRepository interface {
	Create(ctx context.Context, personID uuid.UUID, content string, source models.NoteSource) (*models.Note, error)
}

// PeopleService handles person reads, deletes and manual notes.
type PeopleService struct {
	repo      PeopleRepository
	notes     NotesRepository
	publisher MessagePublisher
}

// NewPeopleService creates a PeopleService. publisher may be nil.
func NewPeopleService(repo PeopleRepository, notes NotesRepository, publisher MessagePublisher) *PeopleService {
	return &PeopleService{repo: repo, notes: notes, publisher: publisher}
}

// GetPerson returns a non-deleted person.
func (s *PeopleService) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	return s.repo.Get(ctx, id)
}

// DeletePerson soft-deletes a person and publishes person.deleted.
func (s *PeopleService) DeletePerson(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.PublishEvent(ctx, datatypes.PersonDeleted, id)
	}

	return nil
}

// AddNote appends a manual note to the person's timeline.
func (s *PeopleService) AddNote(ctx context.Context, personID uuid.UUID, req *models.CreateNoteRequest) (*models.Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, huberrors.NewValidationError("content", "content must not be blank")
	}

	if _, err := s.repo.Get(ctx, personID); err != nil {
		return nil, err
	}

	return s.notes.Create(ctx, personID, content, models.NoteSourceManual)
}
