// Package refreshtokens declares the session store: persisted refresh tokens
// that make revocation possible.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

// Repository defines operations for storing, retrieving and revoking refresh
// tokens. There is deliberately no update: a refresh never touches the row.
type Repository interface {
	// Create stores token for userID, valid until expiresAt. A duplicate token
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error

	// Find looks up a session by its token string and returns
	// common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session by its token string. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions that expired before the given instant
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
