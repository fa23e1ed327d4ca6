package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
	// Replies is filled for top-level comments only, oldest first. A thread
	// with no replies carries an empty list.
	Replies []Comment `json:"replies"`
}
