package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists one row per cart with its lines as a JSON document.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&cartRecord{}}
}

type cartRecord struct {
	UserID    string           `gorm:"primaryKey;column:user_id;size:64"`
	Items     []cartItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	Total     decimal.Decimal  `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

type cartItemRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

func (r *Repository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Mutate locks the cart row for the duration of fn.
func (r *Repository) Mutate(ctx context.Context, userID string, create bool, fn func(*domain.Cart) error) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var cart *domain.Cart
	err := pgplatform.WithRetry(ctx, r.db, pgplatform.DefaultTxOptions(), func(tx *gorm.DB) error {
		if create {
			empty := cartRecord{UserID: userID, Items: []cartItemRecord{}, UpdatedAt: time.Now().UTC()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&empty).Error; err != nil {
				return err
			}
		}
		var record cartRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		cart = record.toDomain()
		if err := fn(cart); err != nil {
			return err
		}
		updated := toRecord(cart)
		return tx.Model(&cartRecord{UserID: userID}).
			Select("Items", "Total", "UpdatedAt").
			Updates(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(c *domain.Cart) cartRecord {
	record := cartRecord{
		UserID:    c.UserID,
		Items:     make([]cartItemRecord, 0, len(c.Items)),
		Total:     c.Total(),
		UpdatedAt: c.UpdatedAt,
	}
	for _, item := range c.Items {
		record.Items = append(record.Items, cartItemRecord(item))
	}
	return record
}

func (r cartRecord) toDomain() *domain.Cart {
	cart := &domain.Cart{UserID: r.UserID, Items: make([]domain.Item, 0, len(r.Items)), UpdatedAt: r.UpdatedAt}
	for _, item := range r.Items {
		cart.Items = append(cart.Items, domain.Item(item))
	}
	return cart
}
