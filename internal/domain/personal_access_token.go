package domain

import "time"

// PersonalAccessToken is a hashed API bearer token (Sanctum-compatible rows
// shared with the web application).
type PersonalAccessToken struct {
	ID        int64
	TokenHash string
	UserID    int64
	Abilities string
	ExpiresAt *time.Time
}

func (t *PersonalAccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
