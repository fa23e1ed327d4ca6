// Package common defines shared constants and sentinel errors used across
// client and server layers of GophForum. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrUnavailable    = errors.New("unavailable")

	// Validation errors (missing or malformed input).
	ErrValidation = errors.New("validation error")

	// ErrInvalidToken covers every token verification failure: bad signature,
	// malformed structure, wrong algorithm or expired claim.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRefreshTokenExpired is returned when the stored session outlived its
	// expiry even though the token signature may still be valid.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
