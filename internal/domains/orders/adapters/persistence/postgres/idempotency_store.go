package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

// NewIdempotencyStore wires a PostgreSQL-backed idempotency store.
func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

// Claim inserts a pending row with ON CONFLICT DO NOTHING. When no row was
// inserted the stored record is loaded and returned unclaimed.
func (s *IdempotencyStore) Claim(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	// A claim released between the insert and the read is retried once.
	for attempt := 0; attempt < 2; attempt++ {
		row := idempotencyRecord{
			UserID:      record.UserID,
			Key:         record.Key,
			RequestHash: record.RequestHash,
		}
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return nil, false, res.Error
		}
		if res.RowsAffected == 1 {
			return row.toPort(), true, nil
		}
		existing, err := s.get(ctx, record.UserID, record.Key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	return nil, false, ports.ErrIdempotencyInProgress
}

func (s *IdempotencyStore) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&idempotencyRecord{}).
		Where("user_id = ? AND key = ?", userID, key).
		Update("order_id", orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrIdempotencyNotClaimed
	}
	return nil
}

// Release deletes the row only while it is still pending.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND order_id IS NULL", userID, key).
		Delete(&idempotencyRecord{}).Error
}

func (s *IdempotencyStore) get(ctx context.Context, userID, key string) (*ports.IdempotencyRecord, error) {
	var record idempotencyRecord
	err := s.db.WithContext(ctx).First(&record, "user_id = ? AND key = ?", userID, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

type idempotencyRecord struct {
	UserID      string    `gorm:"primaryKey;column:user_id;size:64"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     *string   `gorm:"column:order_id;type:uuid"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	record := &ports.IdempotencyRecord{
		UserID:      r.UserID,
		Key:         r.Key,
		RequestHash: r.RequestHash,
		CreatedAt:   r.CreatedAt,
	}
	if r.OrderID != nil {
		record.OrderID = *r.OrderID
	}
	return record
}
