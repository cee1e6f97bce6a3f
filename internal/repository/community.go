package repository

import (
	"context"

	"eventflow/internal/model"
)

// CommunityFilter narrows community listings.
type CommunityFilter struct {
	Page     PageQuery
	ParentID *string
}

// CommunityRepository defines data access for communities.
type CommunityRepository interface {
	Create(ctx context.Context, c *model.Community) (*model.Community, error)
	FindByID(ctx context.Context, id string) (*model.Community, error)
	FindBySlug(ctx context.Context, slug string) (*model.Community, error)
	List(ctx context.Context, f CommunityFilter) (*PageResult[model.Community], error)

	// Update persists name, description and parent changes.
	Update(ctx context.Context, c *model.Community) (*model.Community, error)

	// SetCoverPath updates the stored cover object key.
	SetCoverPath(ctx context.Context, id, path string) error

	// CountChildren returns how many communities name this one as parent.
	CountChildren(ctx context.Context, id string) (int, error)

	Delete(ctx context.Context, id string) error
}

// CommunityAdminRepository defines data access for community admin roles.
type CommunityAdminRepository interface {
	// Upsert inserts the role assignment or updates the role of an
	// existing assignment.
	Upsert(ctx context.Context, a *model.CommunityAdmin) error

	// Find returns the admin row for a user in a community.
	Find(ctx context.Context, communityID, userID string) (*model.CommunityAdmin, error)

	// ListByCommunity returns all admin rows of a community.
	ListByCommunity(ctx context.Context, communityID string) ([]model.CommunityAdmin, error)

	// CountByRole counts admins of a community holding the given role.
	CountByRole(ctx context.Context, communityID string, role model.AdminRole) (int, error)

	Delete(ctx context.Context, communityID, userID string) error
}

// CommunityMemberRepository defines data access for community membership.
type CommunityMemberRepository interface {
	// Add inserts a membership row; adding an existing member is a no-op.
	Add(ctx context.Context, m *model.CommunityMember) error

	// Find returns the membership row for a user in a community.
	Find(ctx context.Context, communityID, userID string) (*model.CommunityMember, error)

	List(ctx context.Context, communityID string, pq PageQuery) (*PageResult[model.CommunityMember], error)

	Remove(ctx context.Context, communityID, userID string) error
}
