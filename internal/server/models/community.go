package models

import "time"

type Community struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	CreatorID   string         `json:"creatorId"`
	CreatedAt   time.Time      `json:"createdAt"`
	Count       CommunityCount `json:"_count"`
}

type CommunityCount struct {
	Posts int `json:"posts"`
}

// CommunityRef is the short community projection embedded in posts.
type CommunityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
