// Package services contains application services for the GophForum client.
// This file defines the account service: signup, login and logout with local
// token persistence, the profile, avatar upload and the liveness probe.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/dmitrijs2005/gophforum/internal/client/utils"
	"github.com/dmitrijs2005/gophforum/internal/common"
)

// AuthService defines account operations for the CLI.
//
// Contract:
//   - Signup/Login: authenticate against the server and persist both tokens.
//   - Logout: revoke the refresh token and forget the local session. The local
//     session is dropped even when the server call fails.
//   - Me: return the signed-in user.
//   - UploadAvatar: obtain a presigned slot and PUT the image into it.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Signup(ctx context.Context, email, password, name string, username *string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	UploadAvatar(ctx context.Context, contentType string, image []byte) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	tokens client.TokenStore
	upload func(ctx context.Context, url, contentType string, data []byte) error
}

// NewAuthService constructs an AuthService bound to the given API client and
// token store.
func NewAuthService(c client.Client, tokens client.TokenStore) AuthService {
	return &authService{
		client: c,
		tokens: tokens,
		upload: func(ctx context.Context, url, contentType string, data []byte) error {
			return utils.UploadToPresignedURL(ctx, http.DefaultClient, url, contentType, data)
		},
	}
}

func (a *authService) Signup(ctx context.Context, email, password, name string, username *string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, common.ErrValidation
	}
	if username != nil && strings.TrimSpace(*username) == "" {
		username = nil
	}

	res, err := a.client.Signup(ctx, email, password, name, username)
	if err != nil {
		return nil, fmt.Errorf("signup error: %w", err)
	}
	return a.remember(ctx, res)
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.ErrValidation
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.remember(ctx, res)
}

func (a *authService) remember(ctx context.Context, res *models.AuthResult) (*models.User, error) {
	if err := a.tokens.SaveTokens(ctx, res.AccessToken, res.RefreshToken); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Logout(ctx context.Context) error {
	remoteErr := a.client.Logout(ctx)
	if err := a.tokens.Clear(ctx); err != nil {
		return errors.Join(remoteErr, err)
	}
	return remoteErr
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	return a.client.Me(ctx)
}

// UploadAvatar returns the storage key the image was written under.
func (a *authService) UploadAvatar(ctx context.Context, contentType string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", common.ErrValidation
	}

	slot, err := a.client.RequestAvatarUpload(ctx)
	if err != nil {
		return "", err
	}

	if err := a.upload(ctx, slot.UploadURL, contentType, image); err != nil {
		return "", fmt.Errorf("avatar upload error: %w", err)
	}
	return slot.Key, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
