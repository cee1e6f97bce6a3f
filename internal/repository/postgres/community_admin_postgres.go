package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// CommunityAdminPostgres is a PostgreSQL implementation of
// repository.CommunityAdminRepository.
type CommunityAdminPostgres struct {
	db *sql.DB
}

func NewCommunityAdminPostgres(db *sql.DB) *CommunityAdminPostgres {
	return &CommunityAdminPostgres{db: db}
}

var _ repository.CommunityAdminRepository = (*CommunityAdminPostgres)(nil)

const adminColumns = `community_id, user_id, role, created_at`

func scanAdmin(row interface{ Scan(...any) error }) (*model.CommunityAdmin, error) {
	var a model.CommunityAdmin
	if err := row.Scan(
		&a.CommunityID,
		&a.UserID,
		&a.Role,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert inserts the role assignment or updates the role of an existing one.
func (r *CommunityAdminPostgres) Upsert(ctx context.Context, a *model.CommunityAdmin) error {
	const q = `
		INSERT INTO community_admins (community_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (community_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.ExecContext(ctx, q, a.CommunityID, a.UserID, a.Role, a.CreatedAt)
	return err
}

// Find returns the admin row for a user in a community.
func (r *CommunityAdminPostgres) Find(ctx context.Context, communityID, userID string) (*model.CommunityAdmin, error) {
	const q = `SELECT ` + adminColumns + ` FROM community_admins WHERE community_id = $1 AND user_id = $2`
	return scanAdmin(r.db.QueryRowContext(ctx, q, communityID, userID))
}

// ListByCommunity returns all admin rows of a community.
func (r *CommunityAdminPostgres) ListByCommunity(ctx context.Context, communityID string) ([]model.CommunityAdmin, error) {
	const q = `SELECT ` + adminColumns + ` FROM community_admins WHERE community_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CommunityAdmin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByRole counts admins of a community holding the given role.
func (r *CommunityAdminPostgres) CountByRole(ctx context.Context, communityID string, role model.AdminRole) (int, error) {
	const q = `SELECT COUNT(*) FROM community_admins WHERE community_id = $1 AND role = $2`
	var n int
	if err := r.db.QueryRowContext(ctx, q, communityID, role).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes an admin assignment. Missing rows are not an error.
func (r *CommunityAdminPostgres) Delete(ctx context.Context, communityID, userID string) error {
	const q = `DELETE FROM community_admins WHERE community_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, communityID, userID)
	return err
}
