// Package common contains shared constants and sentinel errors used across
// GophForum components.
package common

// AuthorizationHeaderName is the HTTP header carrying "Bearer <access token>".
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the API accepts.
const BearerScheme = "Bearer"

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
