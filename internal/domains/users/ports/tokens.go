package ports

import "time"

// Claims is what a verified access token asserts.
type Claims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Tokens issues and verifies signed access tokens.
type Tokens interface {
	Issue(userID, role string, now time.Time) (string, Claims, error)
	Parse(token string) (Claims, error)
}
