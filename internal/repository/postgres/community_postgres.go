package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// CommunityPostgres is a PostgreSQL implementation of repository.CommunityRepository.
type CommunityPostgres struct {
	db *sql.DB
}

// NewCommunityPostgres creates a new CommunityPostgres repository.
func NewCommunityPostgres(db *sql.DB) *CommunityPostgres {
	return &CommunityPostgres{db: db}
}

var _ repository.CommunityRepository = (*CommunityPostgres)(nil)

const communityColumns = `id, name, slug, description, parent_id, cover_path, created_by, created_at`

func scanCommunity(row interface{ Scan(...any) error }) (*model.Community, error) {
	var c model.Community
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.ParentID,
		&c.CoverPath,
		&c.CreatedBy,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new community row and returns the stored record.
func (r *CommunityPostgres) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	const q = `
		INSERT INTO communities (id, name, slug, description, parent_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + communityColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Name,
		c.Slug,
		c.Description,
		c.ParentID,
		c.CreatedBy,
		c.CreatedAt,
	)
	return scanCommunity(row)
}

// FindByID fetches a single community by its ID.
func (r *CommunityPostgres) FindByID(ctx context.Context, id string) (*model.Community, error) {
	const q = `SELECT ` + communityColumns + ` FROM communities WHERE id = $1`
	return scanCommunity(r.db.QueryRowContext(ctx, q, id))
}

// FindBySlug fetches a single community by its slug.
func (r *CommunityPostgres) FindBySlug(ctx context.Context, slug string) (*model.Community, error) {
	const q = `SELECT ` + communityColumns + ` FROM communities WHERE slug = $1`
	return scanCommunity(r.db.QueryRowContext(ctx, q, slug))
}

// List returns communities using LIMIT/OFFSET pagination and a total count.
// The optional parent filter restricts results to children of one community.
func (r *CommunityPostgres) List(ctx context.Context, f repository.CommunityFilter) (*repository.PageResult[model.Community], error) {
	var total int
	if f.ParentID != nil {
		const qCount = `SELECT COUNT(*) FROM communities WHERE parent_id = $1`
		if err := r.db.QueryRowContext(ctx, qCount, *f.ParentID).Scan(&total); err != nil {
			return nil, err
		}
	} else {
		const qCount = `SELECT COUNT(*) FROM communities`
		if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
			return nil, err
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.ParentID != nil {
		const qList = `
			SELECT ` + communityColumns + `
			FROM communities
			WHERE parent_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.QueryContext(ctx, qList, *f.ParentID, f.Page.Limit, f.Page.Offset)
	} else {
		const qList = `
			SELECT ` + communityColumns + `
			FROM communities
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.QueryContext(ctx, qList, f.Page.Limit, f.Page.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Community, 0)
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Community]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists name, description and parent changes.
func (r *CommunityPostgres) Update(ctx context.Context, c *model.Community) (*model.Community, error) {
	const q = `
		UPDATE communities
		SET name = $2, description = $3, parent_id = $4
		WHERE id = $1
		RETURNING ` + communityColumns
	row := r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Description, c.ParentID)
	return scanCommunity(row)
}

// SetCoverPath updates the stored cover object key.
func (r *CommunityPostgres) SetCoverPath(ctx context.Context, id, path string) error {
	const q = `UPDATE communities SET cover_path = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, path)
	return err
}

// CountChildren returns how many communities name this one as parent.
func (r *CommunityPostgres) CountChildren(ctx context.Context, id string) (int, error) {
	const q = `SELECT COUNT(*) FROM communities WHERE parent_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a community by ID. Missing rows are not an error.
func (r *CommunityPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM communities WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
