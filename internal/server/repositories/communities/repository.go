// Package communities declares storage for communities.
package communities

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// List returns every community with its post count, busiest first and
	// then by name.
	List(ctx context.Context) ([]models.Community, error)
	// Create inserts c and fills its ID and CreatedAt. A taken name yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, c *models.Community) (*models.Community, error)
	// GetByName returns common.ErrorNotFound when there is no such community.
	GetByName(ctx context.Context, name string) (*models.Community, error)
}
