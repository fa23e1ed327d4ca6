package models

import "time"

// Session is a persisted refresh token.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Live reports whether the session can still be used to refresh at now. The
// expiry instant itself is still live.
func (s *Session) Live(now time.Time) bool {
	return !now.After(s.ExpiresAt)
}
