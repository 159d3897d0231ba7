package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&userRecord{}, &sessionRecord{}}
}

type addressRecord struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

type userRecord struct {
	ID           string          `gorm:"primaryKey;column:id;type:uuid"`
	Email        string          `gorm:"column:email;size:320;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;size:200;not null"`
	Phone        string          `gorm:"column:phone;size:32"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         string          `gorm:"column:role;size:16;not null;default:customer;index"`
	IsVerified   bool            `gorm:"column:is_verified"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	Addresses    []addressRecord `gorm:"column:addresses;type:jsonb;serializer:json"`
	Wishlist     pq.StringArray  `gorm:"column:wishlist;type:text[]"`
	CreatedAt    time.Time       `gorm:"column:created_at;index"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if pgplatform.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrEmailTaken
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "email = ?", domain.NormalizeEmail(email))
}

// Update locks the user row for the duration of fn.
func (r *Repository) Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var user *domain.User
	err := pgplatform.WithRetry(ctx, r.db, pgplatform.DefaultTxOptions(), func(tx *gorm.DB) error {
		current, err := r.first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
		if err != nil {
			return err
		}
		if err := fn(current); err != nil {
			return err
		}
		updated := toRecord(current)
		if err := tx.Model(&userRecord{ID: id}).
			Select("Email", "Name", "Phone", "PasswordHash", "Role", "IsVerified", "IsActive", "Addresses", "Wishlist", "UpdatedAt").
			Updates(&updated).Error; err != nil {
			if pgplatform.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrEmailTaken
			}
			return err
		}
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns users newest first.
func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.User], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	query := r.db.WithContext(ctx).Model(&userRecord{})
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	var records []userRecord
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&records).Error; err != nil {
		return pagination.Page[*domain.User]{}, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return pagination.NewPage(users, total, page), nil
}

func (r *Repository) Count(ctx context.Context, since time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	query := r.db.WithContext(ctx).Model(&userRecord{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *Repository) Names(ctx context.Context, ids []string) (map[string]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	names := make(map[string]string, len(valid))
	if len(valid) == 0 {
		return names, nil
	}
	var rows []struct {
		ID   string
		Name string
	}
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Select("id", "name").Where("id IN ?", valid).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *Repository) first(db *gorm.DB, query string, args ...any) (*domain.User, error) {
	var record userRecord
	if err := db.Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(u *domain.User) userRecord {
	record := userRecord{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		IsActive:     u.IsActive,
		Addresses:    make([]addressRecord, 0, len(u.Addresses)),
		Wishlist:     pq.StringArray(append([]string{}, u.Wishlist...)),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	for _, a := range u.Addresses {
		record.Addresses = append(record.Addresses, addressRecord(a))
	}
	return record
}

func (r userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		Phone:        r.Phone,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		IsVerified:   r.IsVerified,
		IsActive:     r.IsActive,
		Addresses:    make([]domain.Address, 0, len(r.Addresses)),
		Wishlist:     append([]string{}, r.Wishlist...),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, a := range r.Addresses {
		u.Addresses = append(u.Addresses, domain.Address(a))
	}
	return u
}
