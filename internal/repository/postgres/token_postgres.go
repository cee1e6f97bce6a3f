package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// VerificationTokenPostgres is a PostgreSQL implementation of
// repository.VerificationTokenRepository.
type VerificationTokenPostgres struct {
	db *sql.DB
}

func NewVerificationTokenPostgres(db *sql.DB) *VerificationTokenPostgres {
	return &VerificationTokenPostgres{db: db}
}

var _ repository.VerificationTokenRepository = (*VerificationTokenPostgres)(nil)

func (r *VerificationTokenPostgres) Create(ctx context.Context, t *model.VerificationToken) error {
	const q = `INSERT INTO verification_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, q, t.Token, t.UserID, t.ExpiresAt)
	return err
}

func (r *VerificationTokenPostgres) Find(ctx context.Context, token string) (*model.VerificationToken, error) {
	const q = `SELECT token, user_id, expires_at FROM verification_tokens WHERE token = $1`
	var t model.VerificationToken
	if err := r.db.QueryRowContext(ctx, q, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *VerificationTokenPostgres) Delete(ctx context.Context, token string) error {
	const q = `DELETE FROM verification_tokens WHERE token = $1`
	_, err := r.db.ExecContext(ctx, q, token)
	return err
}
