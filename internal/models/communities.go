package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipStatus is the state of a person's membership in a community.
type MembershipStatus string

// Membership statuses. Application intake always writes MembershipApplied.
const (
	MembershipApplied   MembershipStatus = "applied"
	MembershipReviewing MembershipStatus = "reviewing"
	MembershipAccepted  MembershipStatus = "accepted"
	MembershipRejected  MembershipStatus = "rejected"
)

// Community is a group people can apply to.
type Community struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// CommunityMember links a person to a community.
type CommunityMember struct {
	CommunityID uuid.UUID        `json:"community_id"`
	PersonID    uuid.UUID        `json:"person_id"`
	Status      MembershipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
