package models

import (
	"time"

	"github.com/google/uuid"
)

// IntroductionStatus is the lifecycle state of a suggested introduction.
type IntroductionStatus string

// Introduction statuses. The matcher only ever creates IntroductionGenerated.
const (
	IntroductionGenerated IntroductionStatus = "generated"
	IntroductionAccepted  IntroductionStatus = "accepted"
	IntroductionDismissed IntroductionStatus = "dismissed"
	IntroductionMade      IntroductionStatus = "made"
)

// IsValid reports whether s is a known status.
func (s IntroductionStatus) IsValid() bool {
	switch s {
	case IntroductionGenerated, IntroductionAccepted, IntroductionDismissed, IntroductionMade:
		return true
	default:
		return false
	}
}

// Rationale holds the two short justifications shown with an introduction.
type Rationale struct {
	// ForSource tells the source person why they should meet the target.
	ForSource string `json:"for_source"`
	// ForTarget tells the target person why they should meet the source.
	ForTarget string `json:"for_target"`
}

// Introduction is a suggested pairing of two distinct people.
type Introduction struct {
	ID         uuid.UUID          `json:"id"`
	PersonAID  uuid.UUID          `json:"person_a_id"`
	PersonBID  uuid.UUID          `json:"person_b_id"`
	MatchScore float64            `json:"match_score"`
	Status     IntroductionStatus `json:"status"`
	Rationale  Rationale          `json:"rationale"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CreateIntroductionInput is one row the matcher inserts.
type CreateIntroductionInput struct {
	PersonAID  uuid.UUID
	PersonBID  uuid.UUID
	MatchScore float64
	Rationale  Rationale
}

// GenerateIntroductionsRequest is the body of POST /v1/introductions/generate.
type GenerateIntroductionsRequest struct {
	PersonID uuid.UUID `json:"personId" validate:"required"`
}

// GenerateIntroductionsResponse is returned by POST /v1/introductions/generate.
type GenerateIntroductionsResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	Introductions []Introduction `json:"introductions"`
}

// ListIntroductionsFilters are the query parameters of GET /v1/introductions.
type ListIntroductionsFilters struct {
	PersonID uuid.UUID           `form:"personId" validate:"required"`
	Status   *IntroductionStatus `form:"status" validate:"omitempty,oneof=generated accepted dismissed made"`
	Limit    int                 `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int                 `form:"offset" validate:"omitempty,min=0"`
}

// UpdateIntroductionRequest is the body of PATCH /v1/introductions/{id}.
type UpdateIntroductionRequest struct {
	Status IntroductionStatus `json:"status" validate:"required,oneof=generated accepted dismissed made"`
}
