package client

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Signup(ctx context.Context, email, password, name string, username *string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	RequestAvatarUpload(ctx context.Context) (*models.AvatarUpload, error)

	ListCommunities(ctx context.Context) ([]models.Community, error)
	CreateCommunity(ctx context.Context, name string, description *string) (*models.Community, error)
	GetCommunity(ctx context.Context, name string) (*models.Community, error)

	ListPosts(ctx context.Context, communityID string) ([]models.Post, error)
	CreatePost(ctx context.Context, title, content, communityID string) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ToggleUpvote(ctx context.Context, postID string) (bool, error)

	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID, content string, parentID *string) (*models.Comment, error)
}

// TokenStore persists the session tokens between CLI invocations.
type TokenStore interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	SaveTokens(ctx context.Context, access, refresh string) error
	SaveAccessToken(ctx context.Context, access string) error
	Clear(ctx context.Context) error
}
