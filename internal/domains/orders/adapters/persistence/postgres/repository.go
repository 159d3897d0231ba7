package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL. Line items and status history
// live in child tables; history rows are only ever inserted.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&orderRecord{}, &orderItemRecord{}, &statusRecord{}, &idempotencyRecord{}}
}

type addressRecord struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

type orderRecord struct {
	ID              string            `gorm:"primaryKey;column:id;type:uuid"`
	UserID          string            `gorm:"column:user_id;not null;index:idx_orders_user_created,priority:1"`
	OrderNumber     string            `gorm:"column:order_number;size:32;uniqueIndex"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2)"`
	ShippingCost    decimal.Decimal   `gorm:"column:shipping_cost;type:numeric(12,2)"`
	Tax             decimal.Decimal   `gorm:"column:tax;type:numeric(12,2)"`
	Discount        decimal.Decimal   `gorm:"column:discount;type:numeric(12,2)"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2)"`
	ShippingAddress addressRecord     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  addressRecord     `gorm:"column:billing_address;type:jsonb;serializer:json"`
	PaymentMethod   string            `gorm:"column:payment_method;size:50"`
	PaymentStatus   string            `gorm:"column:payment_status;size:20;index"`
	OrderStatus     string            `gorm:"column:order_status;size:20;index"`
	TrackingNumber  string            `gorm:"column:tracking_number;size:100"`
	TrackingCarrier string            `gorm:"column:tracking_carrier;size:100"`
	Notes           string            `gorm:"column:notes;type:text"`
	Items           []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History         []statusRecord    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;index:idx_orders_user_created,priority:2"`
	UpdatedAt       time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        uint            `gorm:"primaryKey;column:id"`
	OrderID   string          `gorm:"column:order_id;type:uuid;not null;index"`
	Position  int             `gorm:"column:position;not null"`
	ProductID string          `gorm:"column:product_id;not null;index"`
	Name      string          `gorm:"column:name"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Quantity  int             `gorm:"column:quantity;check:chk_order_items_quantity,quantity > 0"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type statusRecord struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	OrderID   string    `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_order_history_seq,priority:1"`
	Seq       int       `gorm:"column:seq;not null;uniqueIndex:idx_order_history_seq,priority:2"`
	Status    string    `gorm:"column:status;size:20"`
	Timestamp time.Time `gorm:"column:timestamp"`
	Note      string    `gorm:"column:note"`
}

func (statusRecord) TableName() string { return "order_status_history" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	for i := range record.Items {
		record.Items[i].OrderID = record.ID
	}
	for i := range record.History {
		record.History[i].OrderID = record.ID
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if pgplatform.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateOrderNumber
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// Update writes the mutable columns guarded by the status the caller read,
// then appends the history entries the stored order does not have yet.
func (r *Repository) Update(ctx context.Context, order *domain.Order, from domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(order.ID); err != nil {
		return nil, ports.ErrNotFound
	}
	err := pgplatform.WithRetry(ctx, r.db, pgplatform.DefaultTxOptions(), func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND order_status = ?", order.ID, string(from)).
			Updates(map[string]any{
				"order_status":     string(order.Status),
				"payment_status":   string(order.PaymentStatus),
				"tracking_number":  order.TrackingNumber,
				"tracking_carrier": order.TrackingCarrier,
				"updated_at":       gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&orderRecord{}).Where("id = ?", order.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ports.ErrNotFound
			}
			return ports.ErrConcurrentUpdate
		}
		var stored int64
		if err := tx.Model(&statusRecord{}).Where("order_id = ?", order.ID).Count(&stored).Error; err != nil {
			return err
		}
		if int(stored) >= len(order.History) {
			return nil
		}
		appended := make([]statusRecord, 0, len(order.History)-int(stored))
		for i := int(stored); i < len(order.History); i++ {
			appended = append(appended, toStatusRecord(order.ID, i, order.History[i]))
		}
		return tx.Create(&appended).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(ctx, "order_number = ?", number)
}

func (r *Repository) first(ctx context.Context, cond string, arg any) (*domain.Order, error) {
	var record orderRecord
	if err := r.preloaded(ctx).First(&record, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string, page pagination.Request) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	return r.list(ctx, r.db.WithContext(ctx).Model(&orderRecord{}).Where("user_id = ?", userID), page)
}

func (r *Repository) List(ctx context.Context, status domain.Status, page pagination.Request) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if status != "" {
		query = query.Where("order_status = ?", string(status))
	}
	return r.list(ctx, query, page)
}

func (r *Repository) list(ctx context.Context, query *gorm.DB, page pagination.Request) ([]*domain.Order, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("created_at DESC, order_number DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, total, nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	rec := orderRecord{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Discount:        o.Discount,
		Total:           o.Total,
		ShippingAddress: toAddressRecord(o.ShippingAddress),
		BillingAddress:  toAddressRecord(o.BillingAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		OrderStatus:     string(o.Status),
		TrackingNumber:  o.TrackingNumber,
		TrackingCarrier: o.TrackingCarrier,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i, item := range o.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			OrderID:   o.ID,
			Position:  i,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	for i, entry := range o.History {
		rec.History = append(rec.History, toStatusRecord(o.ID, i, entry))
	}
	return rec
}

func toStatusRecord(orderID string, seq int, entry domain.HistoryEntry) statusRecord {
	return statusRecord{
		OrderID:   orderID,
		Seq:       seq,
		Status:    string(entry.Status),
		Timestamp: entry.Timestamp,
		Note:      entry.Note,
	}
}

func toAddressRecord(a domain.Address) addressRecord {
	return addressRecord(a)
}

func (r orderRecord) toDomain() *domain.Order {
	o := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		OrderNumber:     r.OrderNumber,
		Subtotal:        r.Subtotal,
		ShippingCost:    r.ShippingCost,
		Tax:             r.Tax,
		Discount:        r.Discount,
		Total:           r.Total,
		ShippingAddress: domain.Address(r.ShippingAddress),
		BillingAddress:  domain.Address(r.BillingAddress),
		PaymentMethod:   r.PaymentMethod,
		PaymentStatus:   domain.PaymentStatus(r.PaymentStatus),
		Status:          domain.Status(r.OrderStatus),
		TrackingNumber:  r.TrackingNumber,
		TrackingCarrier: r.TrackingCarrier,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, item := range r.Items {
		o.Items = append(o.Items, domain.Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	for _, entry := range r.History {
		o.History = append(o.History, domain.HistoryEntry{
			Status:    domain.Status(entry.Status),
			Timestamp: entry.Timestamp.UTC(),
			Note:      entry.Note,
		})
	}
	return o
}
