package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func golang() map[string]*models.Community {
	return map[string]*models.Community{"golang": {ID: "community-1", Name: "golang"}}
}

func TestForumService_CreateCommunity(t *testing.T) {
	fc := &fakeClient{}
	svc := NewForumService(fc)

	c, err := svc.CreateCommunity(context.Background(), " golang ", "  ")
	require.NoError(t, err)
	assert.Equal(t, "golang", c.Name)
	assert.Nil(t, fc.LastDescription, "blank description is omitted")

	_, err = svc.CreateCommunity(context.Background(), "rust", "crabs")
	require.NoError(t, err)
	require.NotNil(t, fc.LastDescription)
	assert.Equal(t, "crabs", *fc.LastDescription)

	_, err = svc.CreateCommunity(context.Background(), " ", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestForumService_PostsResolveCommunityName(t *testing.T) {
	fc := &fakeClient{Communities: golang(), Posts: []models.Post{{ID: "post-1"}}}
	svc := NewForumService(fc)

	posts, err := svc.Posts(context.Background(), "golang")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "community-1", fc.LastCommunityID)

	_, err = svc.Posts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, fc.LastCommunityID)
}

func TestForumService_CreatePost(t *testing.T) {
	fc := &fakeClient{Communities: golang()}
	svc := NewForumService(fc)

	p, err := svc.CreatePost(context.Background(), "golang", "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "community-1", p.CommunityID)

	_, err = svc.CreatePost(context.Background(), "golang", "", "World")
	assert.ErrorIs(t, err, common.ErrValidation)

	fc.CommunityErr = &client.APIError{Status: 404, Message: "Community not found"}
	_, err = svc.CreatePost(context.Background(), "nope", "t", "c")
	assert.Equal(t, 404, client.StatusOf(err))
}

func TestForumService_UpvoteAndPost(t *testing.T) {
	fc := &fakeClient{Upvoted: true}
	svc := NewForumService(fc)

	upvoted, err := svc.ToggleUpvote(context.Background(), "post-1")
	require.NoError(t, err)
	assert.True(t, upvoted)

	p, err := svc.Post(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, "post-1", p.ID)
}

func TestForumService_Comment(t *testing.T) {
	fc := &fakeClient{}
	svc := NewForumService(fc)
	ctx := context.Background()

	c, err := svc.Comment(ctx, "post-1", "top", "")
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
	assert.Nil(t, fc.LastParentID)

	_, err = svc.Comment(ctx, "post-1", "reply", "comment-1")
	require.NoError(t, err)
	require.NotNil(t, fc.LastParentID)
	assert.Equal(t, "comment-1", *fc.LastParentID)

	_, err = svc.Comment(ctx, "post-1", " ", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestForumService_CommunityRequiresName(t *testing.T) {
	_, err := NewForumService(&fakeClient{}).Community(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrValidation)
}
