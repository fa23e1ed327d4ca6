// Package models holds the client-side view of API payloads.
package models

import "time"

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       *string   `json:"username"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AuthResult is the body of a successful signup or login.
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Author struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	Name     string  `json:"name"`
}

// DisplayName prefers the username and falls back to the full name.
func (a Author) DisplayName() string {
	if a.Username != nil && *a.Username != "" {
		return *a.Username
	}
	return a.Name
}

type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	Count       struct {
		Posts int `json:"posts"`
	} `json:"_count"`
}

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CommunityID string    `json:"communityId"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      Author    `json:"author"`
	Community   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"community"`
	Count struct {
		Comments int `json:"comments"`
		Upvotes  int `json:"upvotes"`
	} `json:"_count"`
	Upvoted *bool `json:"upvoted,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
	Replies   []Comment `json:"replies"`
}

// AvatarUpload is a presigned upload slot for a profile picture.
type AvatarUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}
