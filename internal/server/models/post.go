package models

import "time"

type Post struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	CommunityID string       `json:"communityId"`
	AuthorID    string       `json:"authorId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Author      Author       `json:"author"`
	Community   CommunityRef `json:"community"`
	Count       PostCount    `json:"_count"`
	// Upvoted is only set when the caller is authenticated.
	Upvoted *bool `json:"upvoted,omitempty"`
}

type PostCount struct {
	Comments int `json:"comments"`
	Upvotes  int `json:"upvotes"`
}

// Upvote marks that UserID has upvoted PostID. At most one per pair.
type Upvote struct {
	ID        string
	UserID    string
	PostID    string
	CreatedAt time.Time
}
