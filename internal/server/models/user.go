// Package models defines server-side data models persisted in the database.
// JSON tags describe the API projections returned to clients.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       *string   `json:"username"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Author is the public projection of a User embedded in posts and comments.
type Author struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	Name     string  `json:"name"`
}
