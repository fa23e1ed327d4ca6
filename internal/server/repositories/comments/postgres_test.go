package comments

import (
	"context"
	"database/sql"
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

var cols = []string{"id", "content", "post_id", "author_id", "parent_id", "created_at", "u_id", "username", "name"}

func TestListByPost_Threads(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	t0 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(cols).
		AddRow("a", "first", "p1", "u1", nil, t0, "u1", "ann", "Ann").
		AddRow("b", "second", "p1", "u2", nil, t0.Add(time.Minute), "u2", nil, "Bob").
		AddRow("a1", "reply to a", "p1", "u2", "a", t0.Add(2*time.Minute), "u2", nil, "Bob").
		AddRow("a2", "another reply", "p1", "u1", "a", t0.Add(3*time.Minute), "u1", "ann", "Ann")

	mock.ExpectQuery(`(?s)FROM\s+comments\s+cm.*WHERE\s+cm\.post_id\s*=\s*\$1\s+ORDER\s+BY\s+cm\.created_at\s+ASC`).
		WithArgs("p1").
		WillReturnRows(rows)

	got, err := repo.ListByPost(context.Background(), "p1")
	require.NoError(t, err)

	require.Len(t, got, 2, "replies are nested, not listed at top level")
	assert.Equal(t, "b", got[0].ID, "top level newest first")
	assert.Empty(t, got[0].Replies)
	assert.NotNil(t, got[0].Replies)
	assert.Equal(t, "a", got[1].ID)
	require.Len(t, got[1].Replies, 2)
	assert.Equal(t, "a1", got[1].Replies[0].ID, "replies oldest first")
	assert.Equal(t, "a2", got[1].Replies[1].ID)
	assert.Equal(t, "Bob", got[1].Replies[0].Author.Name)
}

func TestListByPost_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+comments`).WithArgs("p1").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.ListByPost(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByPost_MalformedID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+comments`).WillReturnError(&pgconn.PgError{Code: "22P02"})

	got, err := repo.ListByPost(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate(t *testing.T) {
	q := `(?s)WITH\s+ins\s+AS\s+\(\s*INSERT\s+INTO\s+comments\s+\(content,\s*post_id,\s*author_id,\s*parent_id\)`

	t.Run("top level", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		now := time.Now()
		mock.ExpectQuery(q).WithArgs("hi", "p1", "u1", nil).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("c1", "hi", "p1", "u1", nil, now, "u1", "ann", "Ann"))

		c, err := repo.Create(context.Background(), &models.Comment{Content: "hi", PostID: "p1", AuthorID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "c1", c.ID)
		assert.Nil(t, c.ParentID)
		assert.Equal(t, "Ann", c.Author.Name)
	})

	t.Run("reply", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		parent := "c1"
		mock.ExpectQuery(q).WithArgs("re", "p1", "u1", "c1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("c2", "re", "p1", "u1", "c1", time.Now(), "u1", "ann", "Ann"))

		c, err := repo.Create(context.Background(), &models.Comment{Content: "re", PostID: "p1", AuthorID: "u1", ParentID: &parent})
		require.NoError(t, err)
		require.NotNil(t, c.ParentID)
		assert.Equal(t, "c1", *c.ParentID)
	})

	t.Run("missing post", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.Create(context.Background(), &models.Comment{Content: "hi", PostID: "p404", AuthorID: "u1"})
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestGetByID(t *testing.T) {
	q := `(?s)SELECT\s+id,\s*content,\s*post_id,\s*author_id,\s*parent_id,\s*created_at\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("c1").
			WillReturnRows(sqlmock.NewRows(cols[:6]).AddRow("c1", "hi", "p1", "u1", nil, time.Now()))

		c, err := repo.GetByID(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "p1", c.PostID)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("c404").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "c404")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
