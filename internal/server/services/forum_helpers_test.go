package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repotest"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, rm *repotest.Manager, email string) *models.User {
	t.Helper()
	u, err := rm.Users(nil).Create(context.Background(), &models.User{
		Email: email, Name: email, PasswordHash: "x", Role: common.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func seedCommunity(t *testing.T, rm *repotest.Manager, name, creatorID string) *models.Community {
	t.Helper()
	c, err := rm.Communities(nil).Create(context.Background(), &models.Community{Name: name, CreatorID: creatorID})
	require.NoError(t, err)
	return c
}

func seedPost(t *testing.T, rm *repotest.Manager, communityID, authorID string) *models.Post {
	t.Helper()
	p, err := rm.Posts(nil).Create(context.Background(), &models.Post{
		Title: "t", Content: "c", CommunityID: communityID, AuthorID: authorID,
	})
	require.NoError(t, err)
	return p
}
