// Package posts declares storage for posts and their read projections.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

type Repository interface {
	// List returns posts newest first. An empty communityID lists every
	// community. When viewerID is set each post carries Upvoted for that
	// account.
	List(ctx context.Context, communityID string, viewerID string) ([]models.Post, error)
	// Create inserts p and returns the stored projection. An unknown
	// community yields common.ErrorNotFound.
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	// GetByID returns common.ErrorNotFound when there is no such post.
	GetByID(ctx context.Context, id string) (*models.Post, error)
}
