package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
)

// Matcher parameters.
const (
	MatchThreshold = 0.78
	MaxMatches     = 5
)

const (
	defaultIntroductionsLimit = 50
	noMatchesMessage          = "No matches found"
)

// MatchPeopleRepository loads people and runs the similarity search.
type MatchPeopleRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	MatchPeople(ctx context.Context, embedding []float32, threshold float64, limit int, excludeID uuid.UUID) ([]models.PersonMatch, error)
}

// IntroductionsRepository stores introductions.
type IntroductionsRepository interface {
	Create(ctx context.Context, in models.CreateIntroductionInput) (*models.Introduction, error)
	ListByPerson(ctx context.Context, filters *models.ListIntroductionsFilters) ([]models.Introduction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IntroductionStatus) (*models.Introduction, error)
}

// IntroductionsService suggests introductions from embedding similarity.
type IntroductionsService struct {
	people  MatchPeopleRepository
	repo    IntroductionsRepository
	metrics observability.IntroductionMetrics
}

// NewIntroductionsService creates an IntroductionsService. metrics may be nil.
func NewIntroductionsService(
	people MatchPeopleRepository, repo IntroductionsRepository, metrics observability.IntroductionMetrics,
) *IntroductionsService {
	return &IntroductionsService{people: people, repo: repo, metrics: metrics}
}

// Generate finds up to MaxMatches people at or above MatchThreshold similarity and stores one
// introduction per match. A failed insert drops that match; the call still succeeds.
func (s *IntroductionsService) Generate(ctx context.Context, personID uuid.UUID) (*models.GenerateIntroductionsResponse, error) {
	ctx = observability.ContextWithPersonID(ctx, personID)

	source, err := s.people.Get(ctx, personID)
	if err != nil {
		return nil, err
	}

	if len(source.Embedding) == 0 {
		s.recordRun(ctx, "no_embedding")

		return nil, huberrors.NewPreconditionError("Source person embedding not found")
	}

	matches, err := s.people.MatchPeople(ctx, source.Embedding, MatchThreshold, MaxMatches, source.ID)
	if err != nil {
		return nil, err
	}

	intros := make([]models.Introduction, 0, MaxMatches)

	for _, m := range eligibleMatches(matches, source.ID) {
		intro, err := s.repo.Create(ctx, models.CreateIntroductionInput{
			PersonAID:  source.ID,
			PersonBID:  m.ID,
			MatchScore: m.Similarity,
			Rationale:  BuildRationale(source, m),
		})
		if err != nil {
			slog.ErrorContext(ctx, "introductions: insert failed, dropping match",
				"target_id", m.ID,
				"error", err,
			)

			continue
		}

		intros = append(intros, *intro)
	}

	if s.metrics != nil {
		s.metrics.RecordCreated(ctx, len(intros))
	}

	if len(intros) == 0 {
		s.recordRun(ctx, "no_matches")

		return &models.GenerateIntroductionsResponse{Success: true, Message: noMatchesMessage, Introductions: intros}, nil
	}

	s.recordRun(ctx, "matched")

	return &models.GenerateIntroductionsResponse{Success: true, Introductions: intros}, nil
}

func (s *IntroductionsService) recordRun(ctx context.Context, status string) {
	if s.metrics != nil {
		s.metrics.RecordRun(ctx, status)
	}
}

// eligibleMatches re-applies the threshold, self-exclusion and cap to the store's results.
func eligibleMatches(matches []models.PersonMatch, sourceID uuid.UUID) []models.PersonMatch {
	out := make([]models.PersonMatch, 0, min(len(matches), MaxMatches))

	for _, m := range matches {
		if len(out) == MaxMatches {
			break
		}

		if m.ID == sourceID || m.Similarity < MatchThreshold {
			continue
		}

		out = append(out, m)
	}

	return out
}

// BuildRationale writes the two justifications of an introduction from the people's title,
// company and introduction reasons, falling back to generic text for empty fields.
func BuildRationale(source *models.Person, target models.PersonMatch) models.Rationale {
	return models.Rationale{
		ForSource: rationaleText(target.Name, models.StringValue(target.Title), models.StringValue(target.Company),
			models.StringValue(target.ReasonsToIntroduce)),
		ForTarget: rationaleText(source.Name, models.StringValue(source.Title), models.StringValue(source.Company),
			models.StringValue(source.ReasonsToIntroduce)),
	}
}

func rationaleText(name, title, company, reasons string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "This person"
	}

	var role string

	switch title, company = strings.TrimSpace(title), strings.TrimSpace(company); {
	case title != "" && company != "":
		role = fmt.Sprintf("%s is %s at %s.", name, title, company)
	case title != "":
		role = fmt.Sprintf("%s is %s.", name, title)
	case company != "":
		role = fmt.Sprintf("%s works at %s.", name, company)
	default:
		role = fmt.Sprintf("%s has a closely matching profile.", name)
	}

	reasons = strings.TrimSpace(reasons)
	if reasons == "" {
		return role + " You share overlapping interests and goals."
	}

	return role + " " + reasons
}

// ListIntroductions returns introductions where the person is source or target.
func (s *IntroductionsService) ListIntroductions(ctx context.Context, filters *models.ListIntroductionsFilters) ([]models.Introduction, error) {
	if filters.Limit <= 0 {
		filters.Limit = defaultIntroductionsLimit
	}

	return s.repo.ListByPerson(ctx, filters)
}

// UpdateStatus moves an introduction to a new status.
func (s *IntroductionsService) UpdateStatus(
	ctx context.Context, id uuid.UUID, req *models.UpdateIntroductionRequest,
) (*models.Introduction, error) {
	if !req.Status.IsValid() {
		return nil, huberrors.NewValidationError("status", "invalid introduction status: "+string(req.Status))
	}

	return s.repo.UpdateStatus(ctx, id, req.Status)
}
