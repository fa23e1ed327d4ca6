// Package services contains server-side business logic. UserService handles
// signup, login, the refresh/logout session lifecycle and resolving the
// caller behind an access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/dbx"
	"github.com/dmitrijs2005/gophforum/internal/server/auth"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
	"github.com/dmitrijs2005/gophforum/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is the part of auth.TokenService the services rely on.
type TokenIssuer interface {
	IssueAccessToken(subject string) (string, error)
	IssueTokenPair(subject string) (*auth.TokenPair, error)
	Verify(token string) (string, error)
}

// SignupInput carries the signup form. Username is optional.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Username *string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// UserService provides account and session operations:
//   - Signup / Login: create or check an account and open a session
//   - Refresh: exchange a live refresh token for a new access token
//   - Logout: revoke a refresh token
//   - Authenticate: resolve an access token to an auth.Identity
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	now         func() time.Time
	hashCost    int
	// dummyHash is compared against when the email is unknown, so both
	// login failures cost the same.
	dummyHash []byte
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	return newUserService(db, m, tokens, bcrypt.DefaultCost)
}

func newUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, cost int) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("gophforum-dummy-password"), cost)
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		now:         time.Now,
		hashCost:    cost,
		dummyHash:   dummy,
	}
}

// Signup creates the account and its first session in one transaction.
// Missing email, password or name yields common.ErrValidation; a taken email
// or username yields common.ErrAlreadyExists.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, common.ErrValidation
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		in.Username = nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        in.Email,
			Username:     in.Username,
			Name:         in.Name,
			PasswordHash: string(hash),
			Role:         common.RoleUser,
		})
		if err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		result, err = s.openSession(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Login checks the credentials and opens a new session. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.openSession(ctx, s.db, user)
}

// Refresh returns a new access token for a refresh token that is both
// correctly signed and backed by a live session. The session itself is left
// untouched, so the refresh token stays reusable until it expires or is
// revoked.
//
// Errors: common.ErrValidation for an empty token, common.ErrInvalidToken
// when the signature or expiry check fails, common.ErrRefreshTokenExpired
// when the session is missing or expired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", common.ErrValidation
	}

	subject, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	session, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrRefreshTokenExpired
		}
		return "", fmt.Errorf("error searching refresh token: %w", err)
	}
	if !session.Live(s.now()) {
		return "", common.ErrRefreshTokenExpired
	}

	access, err := s.tokens.IssueAccessToken(subject)
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}
	return access, nil
}

// Logout revokes refreshToken. An empty or unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to the caller's identity.
// common.ErrInvalidToken means the token failed verification and
// common.ErrorNotFound means the account no longer exists.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (auth.Identity, error) {
	subject, err := s.tokens.Verify(accessToken)
	if err != nil {
		return auth.Identity{}, common.ErrInvalidToken
	}

	role, err := s.repomanager.Users(s.db).GetRole(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Identity{}, common.ErrorNotFound
		}
		return auth.Identity{}, fmt.Errorf("error loading user: %w", err)
	}

	return auth.Identity{UserID: subject, Role: role}, nil
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func (s *UserService) openSession(ctx context.Context, db dbx.DBTX, user *models.User) (*AuthResult, error) {
	pair, err := s.tokens.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error issuing tokens: %w", err)
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &AuthResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
