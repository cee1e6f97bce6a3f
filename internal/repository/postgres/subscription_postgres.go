package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// SubscriptionPostgres is a PostgreSQL implementation of
// repository.SubscriptionRepository.
type SubscriptionPostgres struct {
	db *sql.DB
}

func NewSubscriptionPostgres(db *sql.DB) *SubscriptionPostgres {
	return &SubscriptionPostgres{db: db}
}

var _ repository.SubscriptionRepository = (*SubscriptionPostgres)(nil)

const subscriptionColumns = `id, user_id, kind, status, starts_at, expires_at, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*model.Subscription, error) {
	var s model.Subscription
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Kind,
		&s.Status,
		&s.StartsAt,
		&s.ExpiresAt,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new subscription row and returns the stored record.
func (r *SubscriptionPostgres) Create(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	const q = `
		INSERT INTO subscriptions (id, user_id, kind, status, starts_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + subscriptionColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.UserID,
		s.Kind,
		s.Status,
		s.StartsAt,
		s.ExpiresAt,
		s.CreatedAt,
	)
	return scanSubscription(row)
}

// FindCurrentByUser returns the user's newest subscription by expiry.
func (r *SubscriptionPostgres) FindCurrentByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`
	return scanSubscription(r.db.QueryRowContext(ctx, q, userID))
}

// SetStatus updates the status of a subscription.
func (r *SubscriptionPostgres) SetStatus(ctx context.Context, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

// SetExpiresAt moves the expiry of a subscription.
func (r *SubscriptionPostgres) SetExpiresAt(ctx context.Context, id string, expiresAt time.Time) error {
	const q = `UPDATE subscriptions SET expires_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, expiresAt)
	return err
}
