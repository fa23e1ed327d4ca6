package users

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

const insertQ = `(?s)^INSERT\s+INTO\s+users\s+\(email,\s*username,\s*name,\s*password_hash,\s*role\).*RETURNING\s+id,\s*created_at`

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	handle := "ann"
	mock.ExpectQuery(insertQ).
		WithArgs("ann@example.com", &handle, "Ann", "hash", common.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u1", now))

	u, err := repo.Create(context.Background(), &models.User{
		Email: "ann@example.com", Username: &handle, Name: "Ann", PasswordHash: "hash", Role: common.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, now, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "ann@example.com"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "ann@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db down")
}

var userCols = []string{"id", "email", "username", "name", "password_hash", "role", "profile_picture", "created_at"}

func TestGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "ann@example.com", nil, "Ann", "hash", "user", nil, now))

	u, err := repo.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID: "u1", Email: "ann@example.com", Name: "Ann", PasswordHash: "hash", Role: "user", CreatedAt: now,
	}, u)
}

func TestGetByID_NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no rows", sql.ErrNoRows},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
				WithArgs("missing").
				WillReturnError(tt.err)

			_, err := repo.GetByID(context.Background(), "missing")
			require.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestGetRole(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+role\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin"))
	mock.ExpectQuery(q).WithArgs("u2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("u3").WillReturnError(errors.New("conn reset"))

	role, err := repo.GetRole(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	_, err = repo.GetRole(context.Background(), "u2")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetRole(context.Background(), "u3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestSetProfilePicture(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+users\s+SET\s+profile_picture\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("u1", "avatars/u1/k").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("u2", "avatars/u2/k").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetProfilePicture(context.Background(), "u1", "avatars/u1/k"))
	require.ErrorIs(t, repo.SetProfilePicture(context.Background(), "u2", "avatars/u2/k"), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
