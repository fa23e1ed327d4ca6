// Package users declares the server-side repository contract for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

// Repository stores accounts. Lookups return common.ErrorNotFound when the
// account does not exist; Create returns common.ErrAlreadyExists when the
// email or username is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetRole loads only what the auth gateway needs.
	GetRole(ctx context.Context, id string) (string, error)
	SetProfilePicture(ctx context.Context, id string, key string) error
}
