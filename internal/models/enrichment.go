package models

import (
	"github.com/google/uuid"
)

// EnrichmentMode selects the prompt template and the shape of the context sent to the LLM.
type EnrichmentMode int

// Enrichment modes.
const (
	EnrichmentModeProfile EnrichmentMode = iota
	EnrichmentModeTimeline
	EnrichmentModeApplication
)

// Prompt keys, one per mode. The key is both the API selector and the system_prompts row key.
const (
	PromptKeyProfile     = "enrich_profile"
	PromptKeyTimeline    = "enrich_timeline"
	PromptKeyApplication = "enrich_application"
)

var enrichmentModeKeys = map[string]EnrichmentMode{
	PromptKeyProfile:     EnrichmentModeProfile,
	PromptKeyTimeline:    EnrichmentModeTimeline,
	PromptKeyApplication: EnrichmentModeApplication,
}

// ParseEnrichmentMode maps a prompt key to its mode. An empty key selects the profile mode.
func ParseEnrichmentMode(key string) (EnrichmentMode, bool) {
	if key == "" {
		return EnrichmentModeProfile, true
	}

	mode, ok := enrichmentModeKeys[key]

	return mode, ok
}

// PromptKey returns the system prompt key for the mode.
func (m EnrichmentMode) PromptKey() string {
	switch m {
	case EnrichmentModeTimeline:
		return PromptKeyTimeline
	case EnrichmentModeApplication:
		return PromptKeyApplication
	default:
		return PromptKeyProfile
	}
}

// String implements fmt.Stringer; used as a metric attribute.
func (m EnrichmentMode) String() string {
	switch m {
	case EnrichmentModeTimeline:
		return "timeline"
	case EnrichmentModeApplication:
		return "application"
	default:
		return "profile"
	}
}

// EnrichmentRequest is the body of POST /v1/enrichment.
type EnrichmentRequest struct {
	PersonID        uuid.UUID      `json:"personId" validate:"required"`
	SystemPromptKey string         `json:"systemPromptKey,omitempty" validate:"omitempty,max=255,no_null_bytes"`
	TimelineData    []TimelineItem `json:"timelineData,omitempty" validate:"omitempty,max=200"`
}

// EnrichmentResponse is returned by POST /v1/enrichment.
type EnrichmentResponse struct {
	Success       bool     `json:"success"`
	UpdatedFields []string `json:"updatedFields"`
}

// EnrichmentOutput is the JSON object the LLM must return. The first four fields are required.
type EnrichmentOutput struct {
	Summary            string   `json:"summary"`
	DetailedSummary    string   `json:"detailed_summary"`
	IntrosSought       string   `json:"intros_sought"`
	ReasonsToIntroduce string   `json:"reasons_to_introduce"`
	Skills             []string `json:"skills,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	AdditionalNotes    string   `json:"additional_notes,omitempty"`
}

// RequiredEnrichmentFields lists the LLM output keys that must be present and non-blank.
var RequiredEnrichmentFields = []string{"summary", "detailed_summary", "intros_sought", "reasons_to_introduce"}
