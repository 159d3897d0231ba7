package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists newsletter signups in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&subscriberRecord{}}
}

type subscriberRecord struct {
	Email          string     `gorm:"primaryKey;column:email;size:320"`
	Name           string     `gorm:"column:name;size:200"`
	IsActive       bool       `gorm:"column:is_active;not null;index"`
	SubscribedAt   time.Time  `gorm:"column:subscribed_at;not null"`
	UnsubscribedAt *time.Time `gorm:"column:unsubscribed_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (subscriberRecord) TableName() string { return "newsletter_subscribers" }

func (r *Repository) Create(ctx context.Context, s *domain.Subscriber) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := subscriberRecord(*s)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if pgplatform.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, email string) (*domain.Subscriber, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record subscriberRecord
	if err := r.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	s := domain.Subscriber(record)
	return &s, nil
}

func (r *Repository) Save(ctx context.Context, s *domain.Subscriber) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := subscriberRecord(*s)
	result := r.db.WithContext(ctx).Model(&subscriberRecord{Email: s.Email}).
		Select("Name", "IsActive", "UnsubscribedAt", "UpdatedAt").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool, page pagination.Request) (pagination.Page[*domain.Subscriber], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Subscriber]{}, err
	}
	query := r.db.WithContext(ctx).Model(&subscriberRecord{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.Subscriber]{}, err
	}
	var records []subscriberRecord
	if err := query.Order("subscribed_at ASC, email ASC").Offset(page.Offset()).Limit(page.Limit).Find(&records).Error; err != nil {
		return pagination.Page[*domain.Subscriber]{}, err
	}
	items := make([]*domain.Subscriber, 0, len(records))
	for _, record := range records {
		s := domain.Subscriber(record)
		items = append(items, &s)
	}
	return pagination.NewPage(items, total, page), nil
}

func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&subscriberRecord{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres newsletter repository not configured")
	}
	return nil
}
