package services

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	CloseErr error
	PingErr  error

	AuthRet   *models.AuthResult
	AuthErr   error
	LogoutErr error
	MeRet     *models.User
	MeErr     error
	AvatarRet *models.AvatarUpload
	AvatarErr error

	Communities  map[string]*models.Community
	CommunityErr error
	Posts        []models.Post
	PostErr      error
	Upvoted      bool
	Comments     []models.Comment

	LastSignupUsername *string
	LastLoginEmail     string
	LastDescription    *string
	LastCommunityID    string
	LastParentID       *string
	Closed             bool
}

func (f *fakeClient) Close() error {
	f.Closed = true
	return f.CloseErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Signup(_ context.Context, _, _, _ string, username *string) (*models.AuthResult, error) {
	f.LastSignupUsername = username
	return f.AuthRet, f.AuthErr
}

func (f *fakeClient) Login(_ context.Context, email, _ string) (*models.AuthResult, error) {
	f.LastLoginEmail = email
	return f.AuthRet, f.AuthErr
}

func (f *fakeClient) Logout(context.Context) error { return f.LogoutErr }

func (f *fakeClient) Me(context.Context) (*models.User, error) { return f.MeRet, f.MeErr }

func (f *fakeClient) RequestAvatarUpload(context.Context) (*models.AvatarUpload, error) {
	return f.AvatarRet, f.AvatarErr
}

func (f *fakeClient) ListCommunities(context.Context) ([]models.Community, error) {
	out := make([]models.Community, 0, len(f.Communities))
	for _, c := range f.Communities {
		out = append(out, *c)
	}
	return out, f.CommunityErr
}

func (f *fakeClient) CreateCommunity(_ context.Context, name string, description *string) (*models.Community, error) {
	f.LastDescription = description
	return &models.Community{ID: "community-new", Name: name, Description: description}, f.CommunityErr
}

func (f *fakeClient) GetCommunity(_ context.Context, name string) (*models.Community, error) {
	if f.CommunityErr != nil {
		return nil, f.CommunityErr
	}
	return f.Communities[name], nil
}

func (f *fakeClient) ListPosts(_ context.Context, communityID string) ([]models.Post, error) {
	f.LastCommunityID = communityID
	return f.Posts, f.PostErr
}

func (f *fakeClient) CreatePost(_ context.Context, title, content, communityID string) (*models.Post, error) {
	f.LastCommunityID = communityID
	return &models.Post{ID: "post-new", Title: title, Content: content, CommunityID: communityID}, f.PostErr
}

func (f *fakeClient) GetPost(_ context.Context, id string) (*models.Post, error) {
	return &models.Post{ID: id}, f.PostErr
}

func (f *fakeClient) ToggleUpvote(context.Context, string) (bool, error) {
	return f.Upvoted, f.PostErr
}

func (f *fakeClient) ListComments(context.Context, string) ([]models.Comment, error) {
	return f.Comments, nil
}

func (f *fakeClient) CreateComment(_ context.Context, postID, content string, parentID *string) (*models.Comment, error) {
	f.LastParentID = parentID
	return &models.Comment{ID: "comment-new", PostID: postID, Content: content, ParentID: parentID}, nil
}
