// Package comments stores post comments. Threads are one level deep.
package comments

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// ListByPost returns the top-level comments of a post, newest first, each
	// with its replies oldest first.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	// Create inserts c and returns it with the author projection. A missing
	// post or parent yields common.ErrorNotFound.
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	// GetByID returns the bare comment or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Comment, error)
}
