package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/networkbrain/brain/internal/models"
)

// CommunitiesRepository handles data access for communities and memberships.
type CommunitiesRepository struct {
	db *pgxpool.Pool
}

// NewCommunitiesRepository creates a new communities repository.
func NewCommunitiesRepository(db *pgxpool.Pool) *CommunitiesRepository {
	return &CommunitiesRepository{db: db}
}

// EnsureBySlug returns the community with slug, creating it with name if absent.
func (r *CommunitiesRepository) EnsureBySlug(ctx context.Context, slug, name string) (*models.Community, error) {
	var c models.Community

	// The no-op update makes RETURNING yield the existing row on conflict.
	err := r.db.QueryRow(ctx, `
		INSERT INTO communities (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at`, name, slug,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, dbError("ensure community", err)
	}

	return &c, nil
}

// UpsertMembership creates or updates the membership of personID in communityID.
func (r *CommunitiesRepository) UpsertMembership(
	ctx context.Context, communityID, personID uuid.UUID, status models.MembershipStatus,
) (*models.CommunityMember, error) {
	var m models.CommunityMember

	err := r.db.QueryRow(ctx, `
		INSERT INTO community_members (community_id, person_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, person_id) DO UPDATE SET status = EXCLUDED.status, updated_at = now()
		RETURNING community_id, person_id, status, created_at, updated_at`,
		communityID, personID, status,
	).Scan(&m.CommunityID, &m.PersonID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, dbError("upsert community membership", err)
	}

	return &m, nil
}
