package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(fc *fakeClient) (*authService, *client.MemoryTokenStore) {
	tokens := &client.MemoryTokenStore{}
	svc := NewAuthService(fc, tokens).(*authService)
	return svc, tokens
}

func authResult() *models.AuthResult {
	return &models.AuthResult{
		User:         models.User{ID: "user-1", Email: "a@b.c", Name: "Ann"},
		AccessToken:  "acc",
		RefreshToken: "ref",
	}
}

func TestAuthService_LoginSavesTokens(t *testing.T) {
	fc := &fakeClient{AuthRet: authResult()}
	svc, tokens := newAuth(fc)
	ctx := context.Background()

	u, err := svc.Login(ctx, "  a@b.c ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, "a@b.c", fc.LastLoginEmail)

	access, refresh, _ := tokens.Tokens(ctx)
	assert.Equal(t, "acc", access)
	assert.Equal(t, "ref", refresh)
}

func TestAuthService_LoginFailureKeepsNoTokens(t *testing.T) {
	fc := &fakeClient{AuthErr: &client.APIError{Status: 401, Message: "Invalid credentials"}}
	svc, tokens := newAuth(fc)

	_, err := svc.Login(context.Background(), "a@b.c", "bad")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	access, _, _ := tokens.Tokens(context.Background())
	assert.Empty(t, access)
}

func TestAuthService_Validation(t *testing.T) {
	svc, _ := newAuth(&fakeClient{})
	ctx := context.Background()

	_, err := svc.Login(ctx, " ", "pw")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Signup(ctx, "a@b.c", "pw", " ", nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.UploadAvatar(ctx, "image/png", nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAuthService_SignupDropsBlankUsername(t *testing.T) {
	fc := &fakeClient{AuthRet: authResult()}
	svc, _ := newAuth(fc)

	blank := "  "
	_, err := svc.Signup(context.Background(), "a@b.c", "pw", "Ann", &blank)
	require.NoError(t, err)
	assert.Nil(t, fc.LastSignupUsername)

	handle := "ann"
	_, err = svc.Signup(context.Background(), "a@b.c", "pw", "Ann", &handle)
	require.NoError(t, err)
	require.NotNil(t, fc.LastSignupUsername)
	assert.Equal(t, "ann", *fc.LastSignupUsername)
}

func TestAuthService_LogoutClearsEvenOnServerError(t *testing.T) {
	fc := &fakeClient{LogoutErr: client.ErrUnavailable}
	svc, tokens := newAuth(fc)
	ctx := context.Background()
	require.NoError(t, tokens.SaveTokens(ctx, "acc", "ref"))

	err := svc.Logout(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)

	access, refresh, _ := tokens.Tokens(ctx)
	assert.Empty(t, access+refresh)
}

func TestAuthService_UploadAvatar(t *testing.T) {
	fc := &fakeClient{AvatarRet: &models.AvatarUpload{UploadURL: "http://s3/put", Key: "avatars/user-1/x"}}
	svc, _ := newAuth(fc)

	var gotURL, gotType string
	svc.upload = func(_ context.Context, url, contentType string, data []byte) error {
		gotURL, gotType = url, contentType
		return nil
	}

	key, err := svc.UploadAvatar(context.Background(), "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1/x", key)
	assert.Equal(t, "http://s3/put", gotURL)
	assert.Equal(t, "image/png", gotType)
}

func TestAuthService_UploadAvatarErrors(t *testing.T) {
	svc, _ := newAuth(&fakeClient{AvatarErr: &client.APIError{Status: 503, Message: "Avatar storage not configured"}})
	_, err := svc.UploadAvatar(context.Background(), "", []byte("x"))
	assert.Equal(t, 503, client.StatusOf(err))

	svc, _ = newAuth(&fakeClient{AvatarRet: &models.AvatarUpload{UploadURL: "u", Key: "k"}})
	svc.upload = func(context.Context, string, string, []byte) error { return errors.New("403 Forbidden") }
	_, err = svc.UploadAvatar(context.Background(), "", []byte("x"))
	assert.ErrorContains(t, err, "avatar upload error")
}

func TestAuthService_PingAndClose(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable}
	svc, _ := newAuth(fc)

	assert.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	require.NoError(t, svc.Close(context.Background()))
	assert.True(t, fc.Closed)
}
