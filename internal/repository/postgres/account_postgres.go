package postgres

import (
	"context"
	"database/sql"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// AccountPostgres is a PostgreSQL implementation of repository.AccountRepository.
type AccountPostgres struct {
	db *sql.DB
}

// NewAccountPostgres creates a new AccountPostgres repository.
func NewAccountPostgres(db *sql.DB) *AccountPostgres {
	return &AccountPostgres{db: db}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

const accountColumns = `id, user_id, provider, provider_account_id, created_at`

func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Provider,
		&a.ProviderAccountID,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account link and returns the stored record.
func (r *AccountPostgres) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	const q = `
		INSERT INTO accounts (id, user_id, provider, provider_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.UserID,
		a.Provider,
		a.ProviderAccountID,
		a.CreatedAt,
	)
	return scanAccount(row)
}

// FindByProviderAccount fetches the link holding a provider identity.
func (r *AccountPostgres) FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE provider = $1 AND provider_account_id = $2`
	return scanAccount(r.db.QueryRowContext(ctx, q, provider, providerAccountID))
}

// FindByUserProvider fetches the user's link for a provider.
func (r *AccountPostgres) FindByUserProvider(ctx context.Context, userID, provider string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND provider = $2`
	return scanAccount(r.db.QueryRowContext(ctx, q, userID, provider))
}

// ListByUser returns all account links of a user.
func (r *AccountPostgres) ListByUser(ctx context.Context, userID string) ([]model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
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

// Delete removes an account link by ID. Missing rows are not an error.
func (r *AccountPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
