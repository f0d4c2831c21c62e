package service

import (
	"strings"

	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/pkg/proxycurl"
)

// enrichmentContext is the user message sent to the LLM. Each mode has its own schema.
type enrichmentContext interface {
	mode() models.EnrichmentMode
}

// PersonSnapshot is the stored profile as the LLM sees it.
type PersonSnapshot struct {
	Name               string   `json:"name"`
	Email              string   `json:"email,omitempty"`
	Title              string   `json:"title,omitempty"`
	Company            string   `json:"company,omitempty"`
	Location           string   `json:"location,omitempty"`
	LinkedInURL        string   `json:"linkedin_url,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	DetailedSummary    string   `json:"detailed_summary,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	IntrosSought       string   `json:"intros_sought,omitempty"`
	ReasonsToIntroduce string   `json:"reasons_to_introduce,omitempty"`
}

// LinkedInSnapshot is the part of a provider profile passed to the LLM.
type LinkedInSnapshot struct {
	Headline    string                 `json:"headline,omitempty"`
	Summary     string                 `json:"summary,omitempty"`
	Location    string                 `json:"location,omitempty"`
	Experiences []proxycurl.Experience `json:"experiences,omitempty"`
	Education   []proxycurl.Education  `json:"education,omitempty"`
	Skills      []string               `json:"skills,omitempty"`
	Interests   []string               `json:"interests,omitempty"`
}

// ProfileContext is sent for enrich_profile.
type ProfileContext struct {
	Person   PersonSnapshot    `json:"person"`
	LinkedIn *LinkedInSnapshot `json:"linkedin,omitempty"`
}

func (ProfileContext) mode() models.EnrichmentMode { return models.EnrichmentModeProfile }

// TimelineContext is sent for enrich_timeline.
type TimelineContext struct {
	Person   PersonSnapshot        `json:"person"`
	Timeline []models.TimelineItem `json:"timeline"`
}

func (TimelineContext) mode() models.EnrichmentMode { return models.EnrichmentModeTimeline }

// ApplicationContext is sent for enrich_application.
type ApplicationContext struct {
	Person     PersonSnapshot             `json:"person"`
	LinkedIn   *LinkedInSnapshot          `json:"linkedin,omitempty"`
	Community  string                     `json:"community,omitempty"`
	Answers    []models.ApplicationAnswer `json:"answers"`
	Transcript []models.TranscriptTurn    `json:"transcript,omitempty"`
}

func (ApplicationContext) mode() models.EnrichmentMode { return models.EnrichmentModeApplication }

func snapshotPerson(p *models.Person) PersonSnapshot {
	return PersonSnapshot{
		Name:               p.Name,
		Email:              models.StringValue(p.Email),
		Title:              models.StringValue(p.Title),
		Company:            models.StringValue(p.Company),
		Location:           models.StringValue(p.Location),
		LinkedInURL:        models.StringValue(p.LinkedInURL),
		Summary:            models.StringValue(p.Summary),
		DetailedSummary:    models.StringValue(p.DetailedSummary),
		Skills:             p.Skills,
		Interests:          p.Interests,
		IntrosSought:       models.StringValue(p.IntrosSought),
		ReasonsToIntroduce: models.StringValue(p.ReasonsToIntroduce),
	}
}

func snapshotLinkedIn(p *proxycurl.Profile) *LinkedInSnapshot {
	if p == nil {
		return nil
	}

	return &LinkedInSnapshot{
		Headline:    strings.TrimSpace(p.Headline),
		Summary:     strings.TrimSpace(p.Summary),
		Location:    p.Location(),
		Experiences: p.Experiences,
		Education:   p.Education,
		Skills:      p.Skills,
		Interests:   p.Interests,
	}
}

// newEnrichmentContext builds the context for mode. timeline is only used in timeline mode.
func newEnrichmentContext(
	mode models.EnrichmentMode, p *models.Person, linkedIn *proxycurl.Profile, timeline []models.TimelineItem,
) enrichmentContext {
	person := snapshotPerson(p)

	switch mode {
	case models.EnrichmentModeTimeline:
		if timeline == nil {
			timeline = []models.TimelineItem{}
		}

		return TimelineContext{Person: person, Timeline: timeline}
	case models.EnrichmentModeApplication:
		c := ApplicationContext{Person: person, LinkedIn: snapshotLinkedIn(linkedIn), Answers: []models.ApplicationAnswer{}}
		if meta := p.ApplicationMetadata; meta != nil {
			c.Community = meta.Community
			c.Transcript = meta.Transcript

			if meta.Answers != nil {
				c.Answers = meta.Answers
			}
		}

		return c
	default:
		return ProfileContext{Person: person, LinkedIn: snapshotLinkedIn(linkedIn)}
	}
}
