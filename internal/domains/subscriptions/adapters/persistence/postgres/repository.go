package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists subscriptions in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&subscriptionRecord{}}
}

type subscriptionRecord struct {
	ID           string          `gorm:"primaryKey;column:id;type:uuid"`
	UserID       string          `gorm:"column:user_id;size:64;not null;index"`
	ProductID    string          `gorm:"column:product_id;size:64;not null"`
	Quantity     int             `gorm:"column:quantity;not null;check:chk_subscriptions_quantity,quantity > 0"`
	Frequency    string          `gorm:"column:frequency;size:16;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Status       string          `gorm:"column:status;size:16;not null;index"`
	NextDelivery time.Time       `gorm:"column:next_delivery"`
	CancelledAt  *time.Time      `gorm:"column:cancelled_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (subscriptionRecord) TableName() string { return "subscriptions" }

func toRecord(s *domain.Subscription) subscriptionRecord {
	return subscriptionRecord{
		ID:           s.ID,
		UserID:       s.UserID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		Frequency:    string(s.Frequency),
		Price:        s.Price,
		Status:       string(s.Status),
		NextDelivery: s.NextDelivery,
		CancelledAt:  s.CancelledAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r subscriptionRecord) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:           r.ID,
		UserID:       r.UserID,
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		Frequency:    domain.Frequency(r.Frequency),
		Price:        r.Price,
		Status:       domain.Status(r.Status),
		NextDelivery: r.NextDelivery,
		CancelledAt:  r.CancelledAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *Repository) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(s)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Get(ctx context.Context, id, userID string) (*domain.Subscription, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var record subscriptionRecord
	err := r.db.WithContext(ctx).First(&record, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, s *domain.Subscription) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := toRecord(s)
	result := r.db.WithContext(ctx).Model(&subscriptionRecord{}).
		Where("id = ? AND user_id = ?", s.ID, s.UserID).
		Select("Quantity", "Frequency", "Status", "NextDelivery", "CancelledAt", "UpdatedAt").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []subscriptionRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Subscription, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&subscriptionRecord{}).Where("status = ?", string(domain.StatusActive)).Count(&total).Error
	return total, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres subscription repository not configured")
	}
	return nil
}
