package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// CommunityMemberPostgres is a PostgreSQL implementation of
// repository.CommunityMemberRepository.
type CommunityMemberPostgres struct {
	db *sql.DB
}

func NewCommunityMemberPostgres(db *sql.DB) *CommunityMemberPostgres {
	return &CommunityMemberPostgres{db: db}
}

var _ repository.CommunityMemberRepository = (*CommunityMemberPostgres)(nil)

// Add inserts a membership row; adding an existing member is a no-op.
func (r *CommunityMemberPostgres) Add(ctx context.Context, m *model.CommunityMember) error {
	const q = `
		INSERT INTO community_members (community_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, m.CommunityID, m.UserID, m.JoinedAt)
	return err
}

// Find returns the membership row for a user in a community.
func (r *CommunityMemberPostgres) Find(ctx context.Context, communityID, userID string) (*model.CommunityMember, error) {
	const q = `SELECT community_id, user_id, joined_at FROM community_members WHERE community_id = $1 AND user_id = $2`
	var m model.CommunityMember
	if err := r.db.QueryRowContext(ctx, q, communityID, userID).Scan(&m.CommunityID, &m.UserID, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns members using LIMIT/OFFSET pagination and a total count.
func (r *CommunityMemberPostgres) List(ctx context.Context, communityID string, pq repository.PageQuery) (*repository.PageResult[model.CommunityMember], error) {
	const qCount = `SELECT COUNT(*) FROM community_members WHERE community_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, communityID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT community_id, user_id, joined_at
		FROM community_members
		WHERE community_id = $1
		ORDER BY joined_at, user_id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, communityID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CommunityMember, 0)
	for rows.Next() {
		var m model.CommunityMember
		if err := rows.Scan(&m.CommunityID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.CommunityMember]{
		Items: items,
		Total: total,
	}, nil
}

// Remove deletes a membership row. Missing rows are not an error.
func (r *CommunityMemberPostgres) Remove(ctx context.Context, communityID, userID string) error {
	const q = `DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, q, communityID, userID)
	return err
}
