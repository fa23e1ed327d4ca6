package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
)

// ForumService wraps the community, post and comment endpoints. Communities
// are addressed by name, the way users refer to them.
type ForumService interface {
	Communities(ctx context.Context) ([]models.Community, error)
	CreateCommunity(ctx context.Context, name, description string) (*models.Community, error)
	Community(ctx context.Context, name string) (*models.Community, error)

	Posts(ctx context.Context, community string) ([]models.Post, error)
	CreatePost(ctx context.Context, community, title, content string) (*models.Post, error)
	Post(ctx context.Context, id string) (*models.Post, error)
	ToggleUpvote(ctx context.Context, postID string) (bool, error)

	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	Comment(ctx context.Context, postID, content, parentID string) (*models.Comment, error)
}

type forumService struct {
	client client.Client
}

func NewForumService(c client.Client) ForumService {
	return &forumService{client: c}
}

func (f *forumService) Communities(ctx context.Context) ([]models.Community, error) {
	return f.client.ListCommunities(ctx)
}

func (f *forumService) CreateCommunity(ctx context.Context, name, description string) (*models.Community, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ErrValidation
	}

	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}
	return f.client.CreateCommunity(ctx, name, desc)
}

func (f *forumService) Community(ctx context.Context, name string) (*models.Community, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.ErrValidation
	}
	return f.client.GetCommunity(ctx, name)
}

// Posts lists posts of the named community, or of all communities when
// community is empty.
func (f *forumService) Posts(ctx context.Context, community string) ([]models.Post, error) {
	var communityID string
	if community != "" {
		c, err := f.client.GetCommunity(ctx, community)
		if err != nil {
			return nil, err
		}
		communityID = c.ID
	}
	return f.client.ListPosts(ctx, communityID)
}

func (f *forumService) CreatePost(ctx context.Context, community, title, content string) (*models.Post, error) {
	if strings.TrimSpace(community) == "" || strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, common.ErrValidation
	}

	c, err := f.client.GetCommunity(ctx, community)
	if err != nil {
		return nil, err
	}
	return f.client.CreatePost(ctx, title, content, c.ID)
}

func (f *forumService) Post(ctx context.Context, id string) (*models.Post, error) {
	return f.client.GetPost(ctx, id)
}

func (f *forumService) ToggleUpvote(ctx context.Context, postID string) (bool, error) {
	return f.client.ToggleUpvote(ctx, postID)
}

func (f *forumService) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	return f.client.ListComments(ctx, postID)
}

// Comment posts a top-level comment, or a reply when parentID is set.
func (f *forumService) Comment(ctx context.Context, postID, content, parentID string) (*models.Comment, error) {
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(content) == "" {
		return nil, common.ErrValidation
	}

	var parent *string
	if parentID != "" {
		parent = &parentID
	}
	return f.client.CreateComment(ctx, postID, content, parent)
}
