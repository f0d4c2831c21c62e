package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a contact in the network.
type Person struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Email               *string              `json:"email,omitempty"`
	Phone               *string              `json:"phone,omitempty"`
	LinkedInURL         *string              `json:"linkedin_url,omitempty"`
	Title               *string              `json:"title,omitempty"`
	Company             *string              `json:"company,omitempty"`
	Location            *string              `json:"location,omitempty"`
	Summary             *string              `json:"summary,omitempty"`
	DetailedSummary     *string              `json:"detailed_summary,omitempty"`
	Skills              []string             `json:"skills,omitempty"`
	Interests           []string             `json:"interests,omitempty"`
	IntrosSought        *string              `json:"intros_sought,omitempty"`
	ReasonsToIntroduce  *string              `json:"reasons_to_introduce,omitempty"`
	ApplicationMetadata *ApplicationMetadata `json:"application_metadata,omitempty"`
	// Embedding is never serialized; HasEmbedding tells API clients whether one exists.
	Embedding         []float32          `json:"-"`
	HasEmbedding      bool               `json:"has_embedding"`
	EmbeddingMetadata *EmbeddingMetadata `json:"embedding_metadata,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ContactUpdate holds the contact fields an enrichment provider may change.
// Nil means "leave as is".
type ContactUpdate struct {
	Name        *string
	Title       *string
	Company     *string
	Location    *string
	LinkedInURL *string
}

// IsEmpty reports whether the update changes nothing.
func (u ContactUpdate) IsEmpty() bool {
	return u.Name == nil && u.Title == nil && u.Company == nil && u.Location == nil && u.LinkedInURL == nil
}

// ProfileUpdate holds the LLM-generated profile fields written back by enrichment.
// Skills and Interests are only replaced when non-nil.
type ProfileUpdate struct {
	Summary            string
	DetailedSummary    string
	IntrosSought       string
	ReasonsToIntroduce string
	Skills             []string
	Interests          []string
}

// UpsertPersonInput is the application-intake upsert; Email is the conflict key.
type UpsertPersonInput struct {
	Name                string
	Email               string
	Phone               *string
	LinkedInURL         *string
	Title               *string
	Company             *string
	Location            *string
	ApplicationMetadata *ApplicationMetadata
}

// PersonMatch is one similarity-search hit for the introduction matcher.
type PersonMatch struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Title              *string   `json:"title,omitempty"`
	Company            *string   `json:"company,omitempty"`
	IntrosSought       *string   `json:"intros_sought,omitempty"`
	ReasonsToIntroduce *string   `json:"reasons_to_introduce,omitempty"`
	Similarity         float64   `json:"similarity"`
}

// EmbeddingMetadataVersion is the current version of EmbeddingMetadata.
const EmbeddingMetadataVersion = 1

// EmbeddingMetadata describes how a person's stored embedding was produced.
type EmbeddingMetadata struct {
	Version     int       `json:"version"`
	Model       string    `json:"model"`
	TextLength  int       `json:"text_length"`
	Fields      []string  `json:"fields"`
	GeneratedAt time.Time `json:"generated_at"`
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
