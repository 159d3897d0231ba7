package ports

import (
	"context"
	"time"
)

// Session records an issued token so it can be revoked before it expires.
type Session struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}

// SessionStore abstracts session persistence keyed by token id.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Active(ctx context.Context, tokenID string, now time.Time) (bool, error)
	Delete(ctx context.Context, tokenID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// NoopSessionStore accepts every token that verifies. Logout then has no
// effect until the token expires.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, Session) error                     { return nil }
func (noopSessionStore) Active(context.Context, string, time.Time) (bool, error) { return true, nil }
func (noopSessionStore) Delete(context.Context, string) error                    { return nil }
func (noopSessionStore) PurgeExpired(context.Context, time.Time) (int64, error)  { return 0, nil }
