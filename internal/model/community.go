package model

import "time"

// AdminRole is a community-scoped administrator role. Organizers outrank
// moderators: only organizers manage the admin list and delete communities.
type AdminRole string

const (
	AdminRoleOrganizer AdminRole = "organizer"
	AdminRoleModerator AdminRole = "moderator"
)

// Valid reports whether the role is a known admin role.
func (r AdminRole) Valid() bool {
	return r == AdminRoleOrganizer || r == AdminRoleModerator
}

// Community is a user-created group, optionally nested under a parent.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	CoverPath   string    `json:"-"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityAdmin assigns an admin role to a member of a community.
type CommunityAdmin struct {
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	Role        AdminRole `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommunityMember records membership of a user in a community.
type CommunityMember struct {
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	JoinedAt    time.Time `json:"joined_at"`
}
