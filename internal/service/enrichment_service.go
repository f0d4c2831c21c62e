package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/internal/observability"
	"github.com/networkbrain/brain/pkg/proxycurl"
)

// timelineContextSize is how many recent notes and events timeline mode sends when the
// request carries no timeline data.
const timelineContextSize = 20

// EnrichmentPeopleRepository is the person storage used by enrichment.
type EnrichmentPeopleRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Person, error)
	UpdateContact(ctx context.Context, id uuid.UUID, u models.ContactUpdate) error
	UpdateProfile(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) error
}

// NoteWriter appends notes to a person's timeline.
type NoteWriter interface {
	Create(ctx context.Context, personID uuid.UUID, content string, source models.NoteSource) (*models.Note, error)
}

// PromptSource looks up system prompts by key.
type PromptSource interface {
	GetPrompt(ctx context.Context, key string) (*models.SystemPrompt, error)
}

// RecentTimeline returns a person's newest timeline items.
type RecentTimeline interface {
	Recent(ctx context.Context, personID uuid.UUID, n int) ([]models.TimelineItem, error)
}

// ProfileLookup fetches LinkedIn data for a person (Proxycurl in production).
type ProfileLookup interface {
	GetProfile(ctx context.Context, linkedInURL string) (*proxycurl.Profile, error)
	LookupProfile(ctx context.Context, opts proxycurl.LookupOptions) (*proxycurl.Profile, string, error)
}

// EnrichmentDeps groups the collaborators of EnrichmentService. Lookup, Chat, Publisher and
// Metrics may be nil.
type EnrichmentDeps struct {
	People    EnrichmentPeopleRepository
	Notes     NoteWriter
	Prompts   PromptSource
	Timeline  RecentTimeline
	Lookup    ProfileLookup
	Chat      ChatClient
	Publisher MessagePublisher
	Metrics   observability.EnrichmentMetrics
}

// EnrichmentService runs the profile enrichment flow: optional LinkedIn lookup, prompt
// selection, one LLM call, output validation and write-back.
type EnrichmentService struct {
	deps EnrichmentDeps
}

// NewEnrichmentService creates an EnrichmentService.
func NewEnrichmentService(deps EnrichmentDeps) *EnrichmentService {
	return &EnrichmentService{deps: deps}
}

// Enrich enriches one person. Nothing is written, including provider changes, unless the LLM
// output carries every required field.
func (s *EnrichmentService) Enrich(ctx context.Context, req *models.EnrichmentRequest) (*models.EnrichmentResponse, error) {
	start := time.Now()

	mode, ok := models.ParseEnrichmentMode(req.SystemPromptKey)
	if !ok {
		return nil, huberrors.NewValidationError("systemPromptKey", "unknown system prompt key: "+req.SystemPromptKey)
	}

	ctx = observability.ContextWithPersonID(ctx, req.PersonID)
	ctx, span := observability.StartSpan(ctx, "enrichment.enrich",
		attribute.String("enrichment.mode", mode.String()),
		attribute.String("person.id", req.PersonID.String()),
	)

	resp, outcome, err := s.enrich(ctx, mode, req)
	observability.EndSpan(span, err)

	if s.deps.Metrics != nil && outcome != "" {
		s.deps.Metrics.RecordEnrichment(ctx, mode.String(), outcome, time.Since(start))
	}

	return resp, err
}

func (s *EnrichmentService) enrich(
	ctx context.Context, mode models.EnrichmentMode, req *models.EnrichmentRequest,
) (*models.EnrichmentResponse, string, error) {
	person, err := s.deps.People.Get(ctx, req.PersonID)
	if err != nil {
		return nil, "", err
	}

	if s.deps.Chat == nil {
		return nil, "", huberrors.NewConfigurationError("OPENAI_API_KEY", "LLM provider is not configured")
	}

	linkedIn, pending := s.fetchLinkedIn(ctx, person)

	prompt, err := s.deps.Prompts.GetPrompt(ctx, mode.PromptKey())
	if err != nil {
		return nil, "", err
	}

	timeline := req.TimelineData
	if mode == models.EnrichmentModeTimeline && len(timeline) == 0 && s.deps.Timeline != nil {
		timeline, err = s.deps.Timeline.Recent(ctx, person.ID, timelineContextSize)
		if err != nil {
			return nil, "store_error", err
		}
	}

	userContent, err := json.Marshal(newEnrichmentContext(mode, person, linkedIn, timeline))
	if err != nil {
		return nil, "", fmt.Errorf("marshal enrichment context: %w", err)
	}

	llmCtx, llmSpan := observability.StartSpan(ctx, "enrichment.llm")
	raw, err := s.deps.Chat.CompleteJSON(llmCtx, prompt.Prompt, string(userContent))
	observability.EndSpan(llmSpan, err)

	if err != nil {
		return nil, "llm_error", huberrors.NewUpstreamError("llm", err)
	}

	out, err := ParseEnrichmentOutput(raw)
	if err != nil {
		if errors.Is(err, huberrors.ErrValidation) {
			return nil, "validation_error", err
		}

		return nil, "llm_error", err
	}

	update := models.ProfileUpdate{
		Summary:            out.Summary,
		DetailedSummary:    out.DetailedSummary,
		IntrosSought:       out.IntrosSought,
		ReasonsToIntroduce: out.ReasonsToIntroduce,
		Skills:             out.Skills,
		Interests:          out.Interests,
	}

	contactFields, err := s.writeContactChanges(ctx, person.ID, pending)
	if err != nil {
		return nil, "store_error", err
	}

	if err := s.deps.People.UpdateProfile(ctx, person.ID, update); err != nil {
		return nil, "store_error", err
	}

	updated := append(contactFields, models.RequiredEnrichmentFields...)
	if out.Skills != nil {
		updated = append(updated, "skills")
	}

	if out.Interests != nil {
		updated = append(updated, "interests")
	}

	if notes := strings.TrimSpace(out.AdditionalNotes); notes != "" {
		if _, err := s.deps.Notes.Create(ctx, person.ID, notes, models.NoteSourceLLM); err != nil {
			return nil, "store_error", err
		}
	}

	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishEventWithChangedFields(ctx, datatypes.PersonProfileUpdated, person, updated)
	}

	slog.InfoContext(ctx, "enrichment: profile updated",
		"mode", mode.String(),
		"updated_fields", updated,
	)

	return &models.EnrichmentResponse{Success: true, UpdatedFields: updated}, "success", nil
}

// pendingContact is the provider diff, applied to the in-memory person for the LLM context
// and persisted only once the LLM output has been validated.
type pendingContact struct {
	update  models.ContactUpdate
	changes []contactChange
}

// fetchLinkedIn makes at most one provider call and diffs title, company, location and
// LinkedIn URL against the stored person. Provider failures are logged and yield no profile.
func (s *EnrichmentService) fetchLinkedIn(ctx context.Context, person *models.Person) (*proxycurl.Profile, pendingContact) {
	if s.deps.Lookup == nil {
		return nil, pendingContact{}
	}

	profile, resolvedURL, ok := s.lookupProfile(ctx, person)
	if !ok {
		return nil, pendingContact{}
	}

	update, changes := diffContact(person, profile, resolvedURL)

	return profile, pendingContact{update: update, changes: changes}
}

// writeContactChanges stores the provider diff and appends a change-log note listing each
// field as field: "old" -> "new". It returns the changed field names.
func (s *EnrichmentService) writeContactChanges(ctx context.Context, personID uuid.UUID, p pendingContact) ([]string, error) {
	if p.update.IsEmpty() {
		return nil, nil
	}

	if err := s.deps.People.UpdateContact(ctx, personID, p.update); err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(p.changes))
	lines := make([]string, 0, len(p.changes)+1)
	lines = append(lines, "LinkedIn enrichment updated:")

	for _, c := range p.changes {
		fields = append(fields, c.field)
		lines = append(lines, fmt.Sprintf("%s: %q -> %q", c.field, c.old, c.new))
	}

	if _, err := s.deps.Notes.Create(ctx, personID, strings.Join(lines, "\n"), models.NoteSourceEnrichment); err != nil {
		return nil, err
	}

	return fields, nil
}

func (s *EnrichmentService) lookupProfile(ctx context.Context, person *models.Person) (*proxycurl.Profile, string, bool) {
	url := strings.TrimSpace(models.StringValue(person.LinkedInURL))
	name := strings.TrimSpace(person.Name)

	if url == "" && name == "" {
		return nil, "", false
	}

	var (
		profile *proxycurl.Profile
		err     error
	)

	ctx, span := observability.StartSpan(ctx, "enrichment.profile_lookup",
		attribute.Bool("lookup.by_url", url != ""),
	)
	defer func() { observability.EndSpan(span, err) }()

	if url != "" {
		profile, err = s.deps.Lookup.GetProfile(ctx, url)
	} else {
		first, last, _ := strings.Cut(name, " ")
		profile, url, err = s.deps.Lookup.LookupProfile(ctx, proxycurl.LookupOptions{
			FirstName: first,
			LastName:  strings.TrimSpace(last),
			Company:   models.StringValue(person.Company),
			Title:     models.StringValue(person.Title),
			Location:  models.StringValue(person.Location),
		})
	}

	if err != nil {
		outcome := "error"
		if errors.Is(err, proxycurl.ErrProfileNotFound) {
			outcome = "not_found"
		}

		s.recordLookup(ctx, outcome)
		slog.WarnContext(ctx, "enrichment: linkedin lookup failed, continuing without it", "error", err)

		return nil, "", false
	}

	s.recordLookup(ctx, "found")

	return profile, url, true
}

func (s *EnrichmentService) recordLookup(ctx context.Context, outcome string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordLookup(ctx, outcome)
	}
}

type contactChange struct {
	field    string
	old, new string
}

// diffContact compares provider data with the stored person, mutating person so later steps
// see the new values.
func diffContact(person *models.Person, profile *proxycurl.Profile, resolvedURL string) (models.ContactUpdate, []contactChange) {
	var (
		update  models.ContactUpdate
		changes []contactChange
	)

	apply := func(field string, stored **string, candidate string, target **string) {
		candidate = strings.TrimSpace(candidate)
		old := models.StringValue(*stored)

		if candidate == "" || candidate == old {
			return
		}

		v := candidate
		*target = &v
		*stored = &v

		changes = append(changes, contactChange{field: field, old: old, new: candidate})
	}

	if pos := profile.CurrentPosition(); pos != nil {
		apply("title", &person.Title, pos.Title, &update.Title)
		apply("company", &person.Company, pos.Company, &update.Company)
	}

	apply("location", &person.Location, profile.Location(), &update.Location)

	if models.StringValue(person.LinkedInURL) == "" {
		url := resolvedURL
		if url == "" {
			url = profile.ProfileURL()
		}

		apply("linkedin_url", &person.LinkedInURL, url, &update.LinkedInURL)
	}

	return update, changes
}

// ParseEnrichmentOutput decodes the LLM JSON object. Every field in
// models.RequiredEnrichmentFields must be a non-blank string; otherwise a ValidationError
// names all the missing ones. skills and interests accept an array or a comma-separated string.
func ParseEnrichmentOutput(raw string) (*models.EnrichmentOutput, error) {
	var fields map[string]json.RawMessage

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, huberrors.NewUpstreamError("llm", fmt.Errorf("response is not a JSON object: %w", errOrInvalid(err)))
	}

	required := make(map[string]string, len(models.RequiredEnrichmentFields))

	var missing []string

	for _, name := range models.RequiredEnrichmentFields {
		v := stringField(fields[name])
		if v == "" {
			missing = append(missing, name)

			continue
		}

		required[name] = v
	}

	if len(missing) > 0 {
		return nil, huberrors.NewMissingFieldsError("LLM response", missing)
	}

	return &models.EnrichmentOutput{
		Summary:            required["summary"],
		DetailedSummary:    required["detailed_summary"],
		IntrosSought:       required["intros_sought"],
		ReasonsToIntroduce: required["reasons_to_introduce"],
		Skills:             listField(fields["skills"]),
		Interests:          listField(fields["interests"]),
		AdditionalNotes:    stringField(fields["additional_notes"]),
	}, nil
}

var errNotObject = errors.New("null or non-object value")

func errOrInvalid(err error) error {
	if err != nil {
		return err
	}

	return errNotObject
}

// stringField returns the trimmed string value of raw, or "" when absent, null or not a string.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return strings.TrimSpace(s)
}

// listField returns nil when the field is absent or unusable, so the stored value is kept.
func listField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		s := stringField(raw)
		if s == "" {
			return nil
		}

		list = strings.Split(s, ",")
	}

	out := make([]string, 0, len(list))

	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
