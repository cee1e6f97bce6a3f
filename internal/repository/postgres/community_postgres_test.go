package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventflow/internal/model"
	"eventflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// IsNoRowsError reports whether an error chain contains sql.ErrNoRows.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func TestCommunityPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCommunityPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	c := &model.Community{
		ID:          "test-uuid",
		Name:        "Go Meetup",
		Slug:        "go-meetup",
		Description: "monthly go meetup",
		CreatedBy:   "u1",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "cover_path", "created_by", "created_at"}).
		AddRow(c.ID, c.Name, c.Slug, c.Description, nil, "", c.CreatedBy, c.CreatedAt)

	mock.ExpectQuery("INSERT INTO communities").
		WithArgs(c.ID, c.Name, c.Slug, c.Description, nil, c.CreatedBy, c.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, c)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, c.Slug, result.Slug)
	assert.Nil(t, result.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityPostgres_FindBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCommunityPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "cover_path", "created_by", "created_at"}).
			AddRow("c1", "Go Meetup", "go-meetup", "", nil, "", "u1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM communities WHERE slug = ?").
			WithArgs("go-meetup").
			WillReturnRows(rows)

		c, err := repo.FindBySlug(ctx, "go-meetup")

		assert.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM communities WHERE slug = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindBySlug(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, c)
	})
}

func TestCommunityPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCommunityPostgres(db)
	ctx := context.Background()

	t.Run("all communities", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM communities`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "cover_path", "created_by", "created_at"}).
			AddRow("c1", "Go Meetup", "go-meetup", "", nil, "", "u1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM communities ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.CommunityFilter{Page: repository.PageQuery{Limit: 10, Offset: 0}})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("children of a parent", func(t *testing.T) {
		parent := "c1"

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM communities WHERE parent_id = ?`).
			WithArgs(parent).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "cover_path", "created_by", "created_at"}).
			AddRow("c2", "Go Meetup Berlin", "go-meetup-berlin", "", parent, "", "u1", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM communities WHERE parent_id = ?").
			WithArgs(parent, 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.CommunityFilter{
			Page:     repository.PageQuery{Limit: 10, Offset: 0},
			ParentID: &parent,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, parent, *res.Items[0].ParentID)
	})
}

func TestCommunityPostgres_CountChildren(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCommunityPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM communities WHERE parent_id = ?`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountChildren(ctx, "c1")

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCommunityPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCommunityPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM communities WHERE id = ?").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(ctx, "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
