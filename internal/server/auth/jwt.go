// Package auth mints and verifies the signed bearer tokens used by the API
// and carries the authenticated identity through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the registered claims plus the subject account id under "userId".
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Config configures a TokenService. Now defaults to time.Now.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// TokenPair is what signup and login hand back to the caller.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService issues and verifies HS256 tokens. It holds no state besides
// its configuration and is safe for concurrent use.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

var errEmptySecret = errors.New("auth: empty signing secret")

func NewTokenService(cfg Config) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errEmptySecret
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        now,
	}, nil
}

func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	token, _, err := s.issue(subject, s.accessTTL)
	return token, err
}

// IssueRefreshToken returns the token together with the expiry embedded in
// it, so the stored session expires at exactly the same instant.
func (s *TokenService) IssueRefreshToken(subject string) (string, time.Time, error) {
	return s.issue(subject, s.refreshTTL)
}

func (s *TokenService) IssueTokenPair(subject string) (*TokenPair, error) {
	access, err := s.IssueAccessToken(subject)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.IssueRefreshToken(subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshExpiresAt: expiresAt}, nil
}

// RefreshExpiry is the expiry a refresh token minted right now would carry.
func (s *TokenService) RefreshExpiry() time.Time {
	return jwt.NewNumericDate(s.now().Add(s.refreshTTL)).Time
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

func (s *TokenService) issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: subject,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, claims.ExpiresAt.Time, nil
}
