package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repotest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTokens(t *testing.T, clock *testClock) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(auth.Config{
		Secret:     []byte("k"),
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return ts
}

type userFixture struct {
	svc   *UserService
	rm    *repotest.Manager
	mock  sqlmock.Sqlmock
	clock *testClock
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	rm := repotest.NewManager()
	clock := &testClock{t: time.Now()}
	svc := newUserService(db, rm, newTokens(t, clock), bcrypt.MinCost)
	svc.now = clock.Now
	return &userFixture{svc: svc, rm: rm, mock: mock, clock: clock}
}
