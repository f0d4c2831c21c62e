package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
)

// ErrInvalidSignature is returned when a signed webhook fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ApplicationPeopleRepository upserts applicants by email.
type ApplicationPeopleRepository interface {
	UpsertByEmail(ctx context.Context, in models.UpsertPersonInput) (*models.Person, error)
}

// CommunitiesRepository resolves communities and memberships.
type CommunitiesRepository interface {
	EnsureBySlug(ctx context.Context, slug, name string) (*models.Community, error)
	UpsertMembership(ctx context.Context, communityID, personID uuid.UUID, status models.MembershipStatus) (*models.CommunityMember, error)
}

// ApplicationsService ingests community applications posted to the intake webhook.
type ApplicationsService struct {
	people           ApplicationPeopleRepository
	communities      CommunitiesRepository
	publisher        MessagePublisher
	verifier         *standardwebhooks.Webhook
	defaultCommunity string
	metrics          observability.ApplicationMetrics
	now              func() time.Time
}

// NewApplicationsService creates an ApplicationsService. When signingSecret is empty,
// signatures are not checked. publisher and metrics may be nil.
func NewApplicationsService(
	people ApplicationPeopleRepository,
	communities CommunitiesRepository,
	publisher MessagePublisher,
	signingSecret string,
	defaultCommunity string,
	metrics observability.ApplicationMetrics,
) (*ApplicationsService, error) {
	s := &ApplicationsService{
		people:           people,
		communities:      communities,
		publisher:        publisher,
		defaultCommunity: defaultCommunity,
		metrics:          metrics,
		now:              time.Now,
	}

	if signingSecret != "" {
		wh, err := standardwebhooks.NewWebhook(signingSecret)
		if err != nil {
			return nil, fmt.Errorf("create webhook verifier: %w", err)
		}

		s.verifier = wh
	}

	return s, nil
}

// VerifySignature checks the Standard Webhooks headers against body. It always succeeds when
// no signing secret is configured.
func (s *ApplicationsService) VerifySignature(ctx context.Context, body []byte, headers http.Header) error {
	if s.verifier == nil {
		return nil
	}

	if err := s.verifier.Verify(body, headers); err != nil {
		s.RecordOutcome(ctx, "invalid_signature")

		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return nil
}

// RecordOutcome counts a webhook delivery outcome.
func (s *ApplicationsService) RecordOutcome(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordReceived(ctx, outcome)
	}
}

// Ingest upserts the applicant by email, stores the application record and marks the person
// as having applied to the community (the payload's, else the default one).
func (s *ApplicationsService) Ingest(ctx context.Context, p *models.ApplicationWebhookPayload) (*models.ApplicationWebhookResponse, error) {
	slug := communitySlug(p.Community)
	if slug == "" {
		slug = s.defaultCommunity
	}

	person, err := s.people.UpsertByEmail(ctx, models.UpsertPersonInput{
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:       p.Phone,
		LinkedInURL: p.LinkedInURL,
		Title:       p.Title,
		Company:     p.Company,
		Location:    p.Location,
		ApplicationMetadata: &models.ApplicationMetadata{
			Version:    models.ApplicationContractVersion,
			Community:  slug,
			Answers:    p.Answers,
			Transcript: p.Transcript,
			ReceivedAt: s.now().UTC(),
		},
	})
	if err != nil {
		s.RecordOutcome(ctx, "store_error")

		return nil, err
	}

	community, err := s.communities.EnsureBySlug(ctx, slug, communityName(slug))
	if err != nil {
		s.RecordOutcome(ctx, "store_error")

		return nil, err
	}

	if _, err := s.communities.UpsertMembership(ctx, community.ID, person.ID, models.MembershipApplied); err != nil {
		s.RecordOutcome(ctx, "store_error")

		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishEvent(ctx, datatypes.PersonUpserted, person)
	}

	s.RecordOutcome(ctx, "accepted")

	slog.InfoContext(ctx, "application received",
		"person_id", person.ID,
		"community", slug,
		"answers", len(p.Answers),
	)

	return &models.ApplicationWebhookResponse{Success: true, PersonID: person.ID, CommunityID: community.ID}, nil
}

// communitySlug normalises a community name or slug to lower-kebab form.
func communitySlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder

	dash := false

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)

			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')

			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// communityName derives a display name for a community created from its slug.
func communityName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	return strings.Join(words, " ")
}
