package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore keyed by token id.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	s.sessions.Store(session.TokenID, session)
	return nil
}

func (s *SessionStore) Active(_ context.Context, tokenID string, now time.Time) (bool, error) {
	value, ok := s.sessions.Load(tokenID)
	if !ok {
		return false, nil
	}
	return now.Before(value.(ports.Session).ExpiresAt), nil
}

func (s *SessionStore) Delete(_ context.Context, tokenID string) error {
	s.sessions.Delete(tokenID)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var purged int64
	s.sessions.Range(func(key, value any) bool {
		if !now.Before(value.(ports.Session).ExpiresAt) {
			s.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}
