package communities

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "name", "description", "creator_id", "created_at", "post_count"}

func TestList_OrdersByPostCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	desc := "all about go"
	mock.ExpectQuery(`(?s)FROM\s+communities\s+c\s+ORDER\s+BY\s+post_count\s+DESC,\s*c\.name\s+ASC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c1", "golang", desc, "u1", now, 5).
			AddRow("c2", "rust", nil, "u2", now, 2))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.Community{ID: "c1", Name: "golang", Description: &desc, CreatorID: "u1", CreatedAt: now, Count: models.CommunityCount{Posts: 5}}, got[0])
	assert.Nil(t, got[1].Description)
	assert.Equal(t, 2, got[1].Count.Posts)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+communities`).WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got, "empty list must encode as [] not null")
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+communities`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
}

func TestCreate(t *testing.T) {
	q := `(?s)^\s*INSERT\s+INTO\s+communities\s+\(name,\s*description,\s*creator_id\).*RETURNING\s+id,\s*created_at`

	t.Run("ok", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		now := time.Now()
		mock.ExpectQuery(q).WithArgs("golang", nil, "u1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c1", now))

		c, err := repo.Create(context.Background(), &models.Community{Name: "golang", CreatorID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "communities_name_key"})

		_, err := repo.Create(context.Background(), &models.Community{Name: "golang", CreatorID: "u1"})
		require.ErrorIs(t, err, common.ErrAlreadyExists)
	})
}

func TestGetByName(t *testing.T) {
	q := `(?s)FROM\s+communities\s+c\s+WHERE\s+c\.name\s*=\s*\$1`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("golang").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("c1", "golang", nil, "u1", time.Now(), 3))

		c, err := repo.GetByName(context.Background(), "golang")
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
		assert.Equal(t, 3, c.Count.Posts)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByName(context.Background(), "nope")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
