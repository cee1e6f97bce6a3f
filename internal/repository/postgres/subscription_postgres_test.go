package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventflow/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionPostgres_FindCurrentByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubscriptionPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "status", "starts_at", "expires_at", "created_at"}).
			AddRow("sub1", "u1", "paid", "active", now, now.Add(365*24*time.Hour), now)

		mock.ExpectQuery("SELECT (.+) FROM subscriptions WHERE user_id = ?").
			WithArgs("u1").
			WillReturnRows(rows)

		sub, err := repo.FindCurrentByUser(ctx, "u1")

		assert.NoError(t, err)
		assert.Equal(t, model.SubscriptionKindPaid, sub.Kind)
		assert.True(t, sub.ActiveAt(time.Now()))
	})

	t.Run("no subscription", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM subscriptions WHERE user_id = ?").
			WithArgs("u2").
			WillReturnError(sql.ErrNoRows)

		sub, err := repo.FindCurrentByUser(ctx, "u2")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, sub)
	})
}

func TestSubscriptionPostgres_SetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSubscriptionPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE subscriptions SET status").
		WithArgs("sub1", string(model.SubscriptionStatusCanceled)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SetStatus(ctx, "sub1", model.SubscriptionStatusCanceled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
