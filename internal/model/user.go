package model

import "time"

// Role is the platform-wide role of a user. Platform admins review
// complimentary subscription requests; everything community-scoped is
// handled by community admin roles instead.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
// This is a pure domain model with no database-specific dependencies or tags.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	PasswordHash    string     `json:"-"`
	Image           string     `json:"image,omitempty"`
	Role            Role       `json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// HasPassword reports whether the user can sign in with email/password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Account is an external identity (OAuth provider account) linked to a user.
// The pair (Provider, ProviderAccountID) is unique across all users.
type Account struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Provider          string    `json:"provider"`
	ProviderAccountID string    `json:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// VerificationToken is a single-use email verification token.
type VerificationToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
