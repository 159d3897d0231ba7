package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different checkout payload.
	ErrIdempotencyConflict = errkind.Tag(errkind.DuplicateKey, "idempotency key reused with a different request")
	// ErrIdempotencyInProgress indicates another checkout holds the key and has not finished.
	ErrIdempotencyInProgress = errkind.Tag(errkind.DuplicateKey, "checkout with this idempotency key is still in progress")
	// ErrIdempotencyNotClaimed indicates Complete was called for a key nobody holds.
	ErrIdempotencyNotClaimed = errors.New("idempotency key not claimed")
)

// IdempotencyRecord associates a client-supplied key with the order it produced.
// OrderID stays empty while the claiming checkout is running.
type IdempotencyRecord struct {
	UserID      string
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
}

// Pending reports whether the claiming checkout has not completed yet.
func (r IdempotencyRecord) Pending() bool { return r.OrderID == "" }

// IdempotencyStore persists idempotency keys per user so checkout retries
// replay the first order. Keys are claimed before any stock is reserved.
type IdempotencyStore interface {
	// Claim inserts a pending record unless the user already holds the key.
	// claimed is false when a record exists; that record is returned.
	Claim(ctx context.Context, record IdempotencyRecord) (existing *IdempotencyRecord, claimed bool, err error)
	// Complete attaches the placed order to a claimed key.
	Complete(ctx context.Context, userID, key, orderID string) error
	// Release drops a pending claim whose checkout failed.
	Release(ctx context.Context, userID, key string) error
}
