package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/reviews/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL. The (user_id, product_id)
// unique index is the duplicate-review guard.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&reviewRecord{}}
}

type reviewRecord struct {
	ID         string    `gorm:"primaryKey;column:id;type:uuid"`
	UserID     string    `gorm:"column:user_id;size:64;not null;uniqueIndex:idx_reviews_user_product,priority:1"`
	ProductID  string    `gorm:"column:product_id;size:64;not null;uniqueIndex:idx_reviews_user_product,priority:2;index"`
	Rating     int       `gorm:"column:rating;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Title      string    `gorm:"column:title;size:200"`
	Comment    string    `gorm:"column:comment;type:text"`
	IsVerified bool      `gorm:"column:is_verified"`
	Helpful    int       `gorm:"column:helpful;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }

func (r *Repository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toRecord(review)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if pgplatform.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateReview
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var record reviewRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update is conditional on the rating the caller read so two edits cannot
// both retract the same rating from the aggregate.
func (r *Repository) Update(ctx context.Context, review *domain.Review, fromRating int) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(review.ID); err != nil {
		return nil, ports.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Where("id = ? AND rating = ?", review.ID, fromRating).
		Updates(map[string]any{
			"rating":     review.Rating,
			"title":      review.Title,
			"comment":    review.Comment,
			"updated_at": review.UpdatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, review.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrConcurrentUpdate
	}
	return r.GetByID(ctx, review.ID)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if _, err := uuid.Parse(id); err != nil {
		return ports.ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&reviewRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) IncrementHelpful(ctx context.Context, id string) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&reviewRecord{}).
		Where("id = ?", id).
		UpdateColumn("helpful", gorm.Expr("helpful + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ListByProduct(ctx context.Context, productID string, page pagination.Request) ([]*domain.Review, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	return r.list(r.db.WithContext(ctx).Model(&reviewRecord{}).Where("product_id = ?", productID), page)
}

func (r *Repository) ListByUser(ctx context.Context, userID string, page pagination.Request) ([]*domain.Review, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	return r.list(r.db.WithContext(ctx).Model(&reviewRecord{}).Where("user_id = ?", userID), page)
}

func (r *Repository) list(query *gorm.DB, page pagination.Request) ([]*domain.Review, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []reviewRecord
	if err := query.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	reviews := make([]*domain.Review, 0, len(records))
	for i := range records {
		reviews = append(reviews, records[i].toDomain())
	}
	return reviews, total, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func toRecord(rv *domain.Review) reviewRecord {
	return reviewRecord{
		ID:         rv.ID,
		UserID:     rv.UserID,
		ProductID:  rv.ProductID,
		Rating:     rv.Rating,
		Title:      rv.Title,
		Comment:    rv.Comment,
		IsVerified: rv.IsVerified,
		Helpful:    rv.Helpful,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
}

func (r reviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:         r.ID,
		UserID:     r.UserID,
		ProductID:  r.ProductID,
		Rating:     r.Rating,
		Title:      r.Title,
		Comment:    r.Comment,
		IsVerified: r.IsVerified,
		Helpful:    r.Helpful,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
