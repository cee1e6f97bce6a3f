package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// PaymentTransactionPostgres is a PostgreSQL implementation of
// repository.PaymentTransactionRepository.
type PaymentTransactionPostgres struct {
	db *sql.DB
}

func NewPaymentTransactionPostgres(db *sql.DB) *PaymentTransactionPostgres {
	return &PaymentTransactionPostgres{db: db}
}

var _ repository.PaymentTransactionRepository = (*PaymentTransactionPostgres)(nil)

const paymentColumns = `id, user_id, subscription_id, amount_cents, currency, status, reference, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.PaymentTransaction, error) {
	var t model.PaymentTransaction
	if err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.SubscriptionID,
		&t.AmountCents,
		&t.Currency,
		&t.Status,
		&t.Reference,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new payment record and returns the stored row.
func (r *PaymentTransactionPostgres) Create(ctx context.Context, t *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	const q = `
		INSERT INTO payment_transactions (id, user_id, subscription_id, amount_cents, currency, status, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.UserID,
		t.SubscriptionID,
		t.AmountCents,
		t.Currency,
		t.Status,
		t.Reference,
		t.CreatedAt,
	)
	return scanPayment(row)
}

// ListByUser returns payment records using LIMIT/OFFSET pagination and a
// total count.
func (r *PaymentTransactionPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.PaymentTransaction], error) {
	const qCount = `SELECT COUNT(*) FROM payment_transactions WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + paymentColumns + `
		FROM payment_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PaymentTransaction, 0)
	for rows.Next() {
		t, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.PaymentTransaction]{
		Items: items,
		Total: total,
	}, nil
}
