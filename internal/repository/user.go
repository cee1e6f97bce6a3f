package repository

import (
	"context"
	"time"

	"eventflow/internal/model"
)

// UserRepository defines data access for user rows.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SetEmailVerified stamps the user's email_verified_at.
	SetEmailVerified(ctx context.Context, id string, at time.Time) error
}

// AccountRepository defines data access for linked OAuth accounts.
type AccountRepository interface {
	// Create inserts a new account link.
	Create(ctx context.Context, a *model.Account) (*model.Account, error)

	// FindByProviderAccount returns the link for a provider identity,
	// regardless of which user owns it.
	FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*model.Account, error)

	// FindByUserProvider returns the user's link for a provider.
	FindByUserProvider(ctx context.Context, userID, provider string) (*model.Account, error)

	// ListByUser returns all links of a user.
	ListByUser(ctx context.Context, userID string) ([]model.Account, error)

	// Delete removes an account link by ID.
	Delete(ctx context.Context, id string) error
}

// VerificationTokenRepository defines data access for email verification tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, t *model.VerificationToken) error
	Find(ctx context.Context, token string) (*model.VerificationToken, error)
	Delete(ctx context.Context, token string) error
}
