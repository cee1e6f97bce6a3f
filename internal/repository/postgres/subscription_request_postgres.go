package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// SubscriptionRequestPostgres is a PostgreSQL implementation of
// repository.SubscriptionRequestRepository.
type SubscriptionRequestPostgres struct {
	db *sql.DB
}

func NewSubscriptionRequestPostgres(db *sql.DB) *SubscriptionRequestPostgres {
	return &SubscriptionRequestPostgres{db: db}
}

var _ repository.SubscriptionRequestRepository = (*SubscriptionRequestPostgres)(nil)

const requestColumns = `id, user_id, status, reason, reviewed_by, reviewed_at, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*model.SubscriptionRequest, error) {
	var r model.SubscriptionRequest
	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Status,
		&r.Reason,
		&r.ReviewedBy,
		&r.ReviewedAt,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new request row and returns the stored record.
func (r *SubscriptionRequestPostgres) Create(ctx context.Context, req *model.SubscriptionRequest) (*model.SubscriptionRequest, error) {
	const q = `
		INSERT INTO subscription_requests (id, user_id, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + requestColumns
	row := r.db.QueryRowContext(ctx, q,
		req.ID,
		req.UserID,
		req.Status,
		req.Reason,
		req.CreatedAt,
	)
	return scanRequest(row)
}

// FindByID fetches a single request by its ID.
func (r *SubscriptionRequestPostgres) FindByID(ctx context.Context, id string) (*model.SubscriptionRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM subscription_requests WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

// FindPendingByUser returns the user's pending request, if any.
func (r *SubscriptionRequestPostgres) FindPendingByUser(ctx context.Context, userID string) (*model.SubscriptionRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM subscription_requests WHERE user_id = $1 AND status = 'pending'`
	return scanRequest(r.db.QueryRowContext(ctx, q, userID))
}

// List returns requests using LIMIT/OFFSET pagination and a total count.
// The optional status filter narrows to one review state.
func (r *SubscriptionRequestPostgres) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.SubscriptionRequest], error) {
	var total int
	if f.Status != nil {
		const qCount = `SELECT COUNT(*) FROM subscription_requests WHERE status = $1`
		if err := r.db.QueryRowContext(ctx, qCount, *f.Status).Scan(&total); err != nil {
			return nil, err
		}
	} else {
		const qCount = `SELECT COUNT(*) FROM subscription_requests`
		if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
			return nil, err
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.Status != nil {
		const qList = `
			SELECT ` + requestColumns + `
			FROM subscription_requests
			WHERE status = $1
			ORDER BY created_at, id
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.QueryContext(ctx, qList, *f.Status, f.Page.Limit, f.Page.Offset)
	} else {
		const qList = `
			SELECT ` + requestColumns + `
			FROM subscription_requests
			ORDER BY created_at, id
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.QueryContext(ctx, qList, f.Page.Limit, f.Page.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SubscriptionRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.SubscriptionRequest]{
		Items: items,
		Total: total,
	}, nil
}

// SetReview stamps the review outcome on a request.
func (r *SubscriptionRequestPostgres) SetReview(ctx context.Context, id string, status model.RequestStatus, reviewedBy string, reviewedAt time.Time) error {
	const q = `UPDATE subscription_requests SET status = $2, reviewed_by = $3, reviewed_at = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status, reviewedBy, reviewedAt)
	return err
}
