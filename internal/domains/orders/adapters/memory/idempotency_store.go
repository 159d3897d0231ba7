package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

type idempotencyKey struct {
	userID string
	key    string
}

// IdempotencyStore keeps checkout idempotency keys in memory.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[idempotencyKey]ports.IdempotencyRecord
	now     func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records: map[idempotencyKey]ports.IdempotencyRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Claim stores a pending record unless the user already holds the key.
func (s *IdempotencyStore) Claim(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idempotencyKey{userID: record.UserID, key: record.Key}
	if existing, ok := s.records[k]; ok {
		return &existing, false, nil
	}
	record.OrderID = ""
	record.CreatedAt = s.now().UTC()
	s.records[k] = record
	claimed := record
	return &claimed, true, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, userID, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idempotencyKey{userID: userID, key: key}
	record, ok := s.records[k]
	if !ok {
		return ports.ErrIdempotencyNotClaimed
	}
	record.OrderID = orderID
	s.records[k] = record
	return nil
}

// Release removes the record only while it is still pending.
func (s *IdempotencyStore) Release(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idempotencyKey{userID: userID, key: key}
	if record, ok := s.records[k]; ok && record.Pending() {
		delete(s.records, k)
	}
	return nil
}
