package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationContractVersion is the only accepted version of the intake webhook payload.
const ApplicationContractVersion = 1

// ApplicationAnswer is one question/answer pair from an application form.
type ApplicationAnswer struct {
	Question string `json:"question" validate:"required,max=2000,no_null_bytes"`
	Answer   string `json:"answer" validate:"max=20000,no_null_bytes"`
}

// TranscriptTurn is one turn of an intake conversation (e.g. a voice or chat screener).
type TranscriptTurn struct {
	Role    string `json:"role" validate:"required,max=64,no_null_bytes"`
	Content string `json:"content" validate:"max=20000,no_null_bytes"`
}

// ApplicationWebhookPayload is the v1 application intake contract.
type ApplicationWebhookPayload struct {
	Version     int                 `json:"version,omitempty" validate:"omitempty,eq=1"`
	Name        string              `json:"name" validate:"required,min=1,max=255,no_null_bytes"`
	Email       string              `json:"email" validate:"required,email,max=320"`
	Phone       *string             `json:"phone,omitempty" validate:"omitempty,max=64,no_null_bytes"`
	LinkedInURL *string             `json:"linkedin_url,omitempty" validate:"omitempty,url,linkedin_profile,max=2048"`
	Title       *string             `json:"title,omitempty" validate:"omitempty,max=255,no_null_bytes"`
	Company     *string             `json:"company,omitempty" validate:"omitempty,max=255,no_null_bytes"`
	Location    *string             `json:"location,omitempty" validate:"omitempty,max=255,no_null_bytes"`
	Community   string              `json:"community,omitempty" validate:"omitempty,max=255,no_null_bytes"`
	Answers     []ApplicationAnswer `json:"answers,omitempty" validate:"omitempty,max=200,dive"`
	Transcript  []TranscriptTurn    `json:"transcript,omitempty" validate:"omitempty,max=2000,dive"`
}

// ApplicationMetadata is stored on the person. Version tracks the payload contract it came from.
type ApplicationMetadata struct {
	Version    int                 `json:"version"`
	Community  string              `json:"community"`
	Answers    []ApplicationAnswer `json:"answers,omitempty"`
	Transcript []TranscriptTurn    `json:"transcript,omitempty"`
	ReceivedAt time.Time           `json:"received_at"`
}

// ApplicationWebhookResponse is returned by POST /webhooks/applications.
type ApplicationWebhookResponse struct {
	Success     bool      `json:"success"`
	PersonID    uuid.UUID `json:"personId"`
	CommunityID uuid.UUID `json:"communityId"`
}
