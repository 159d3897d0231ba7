package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	pgplatform "github.com/Apurer/foxnuts-farm-api/internal/platform/postgres"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

var _ ports.Store = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Stock moves with
// conditional UPDATE statements so concurrent reservations cannot oversell.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables this adapter owns.
func Models() []any {
	return []any{&productRecord{}}
}

type productRecord struct {
	ID             string              `gorm:"primaryKey;column:id;type:uuid"`
	Name           string              `gorm:"column:name;not null"`
	Slug           string              `gorm:"column:slug;size:200;uniqueIndex"`
	Description    string              `gorm:"column:description;type:text"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);index"`
	CompareAtPrice decimal.NullDecimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Images         pq.StringArray      `gorm:"column:images;type:text[]"`
	Category       string              `gorm:"column:category;size:100;index"`
	Tags           pq.StringArray      `gorm:"column:tags;type:text[]"`
	Stock          int                 `gorm:"column:stock;not null;check:chk_products_stock,stock >= 0"`
	SKU            string              `gorm:"column:sku;size:100"`
	AverageRating  decimal.Decimal     `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	TotalReviews   int                 `gorm:"column:total_reviews;not null;default:0"`
	RatingTotal    int                 `gorm:"column:rating_total;not null;default:0"`
	IsActive       bool                `gorm:"column:is_active;index"`
	CreatedAt      time.Time           `gorm:"column:created_at;index"`
	UpdatedAt      time.Time           `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts a product or updates its descriptive fields. Stock and the
// rating aggregate of an existing row are left untouched.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":             record.Name,
				"slug":             record.Slug,
				"description":      record.Description,
				"price":            record.Price,
				"compare_at_price": record.CompareAtPrice,
				"images":           record.Images,
				"category":         record.Category,
				"tags":             record.Tags,
				"sku":              record.SKU,
				"is_active":        record.IsActive,
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	if err != nil {
		if pgplatform.IsUniqueViolation(err) {
			return nil, ports.ErrDuplicateSlug
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ports.ErrNotFound
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetBySlug only resolves active products.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "slug = ? AND is_active", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter types.ProductFilter, page pagination.Request) ([]*domain.Product, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&productRecord{})
	if !filter.IncludeInactive {
		query = query.Where("is_active")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if len(filter.Tags) > 0 {
		query = query.Where("tags && ?", pq.Array(filter.Tags))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(
			"(name ILIKE ? OR description ILIKE ? OR array_to_string(tags, ' ') ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []productRecord
	if err := query.
		Order(orderClause(filter.Sort)).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, total, nil
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("is_active").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *Repository) Tags(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var tags []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT unnest(tags) AS tag FROM products WHERE is_active ORDER BY tag").
		Scan(&tags).Error
	return tags, err
}

func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&productRecord{}).Where("is_active").Count(&n).Error
	return n, err
}

// Reserve decrements stock in one statement guarded by stock >= qty.
func (r *Repository) Reserve(ctx context.Context, productID string, qty int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, err := uuid.Parse(productID); err != nil {
		return ports.ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	current, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	return &domain.StockError{
		ProductID:   current.ID,
		ProductName: current.Name,
		Requested:   qty,
		Available:   current.Stock,
	}
}

func (r *Repository) Release(ctx context.Context, productID string, qty int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if _, err := uuid.Parse(productID); err != nil {
		return ports.ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ApplyRating locks the row, folds the rating in and writes the aggregate back
// inside one transaction.
func (r *Repository) ApplyRating(ctx context.Context, productID string, rating int, direction domain.RatingDirection) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, ports.ErrNotFound
	}
	var product *domain.Product
	err := pgplatform.WithRetry(ctx, r.db, pgplatform.DefaultTxOptions(), func(tx *gorm.DB) error {
		var record productRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		product = record.toDomain()
		if err := product.ApplyRating(rating, direction); err != nil {
			return err
		}
		return tx.Model(&productRecord{}).
			Where("id = ?", productID).
			Updates(map[string]any{
				"average_rating": product.AverageRating,
				"total_reviews":  product.TotalReviews,
				"rating_total":   product.RatingTotal,
				"updated_at":     gorm.Expr("NOW()"),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func orderClause(sort types.SortOrder) string {
	switch sort {
	case types.SortPriceAsc:
		return "price ASC, created_at DESC"
	case types.SortPriceDesc:
		return "price DESC, created_at DESC"
	case types.SortRating:
		return "average_rating DESC, created_at DESC"
	case types.SortName:
		return "name ASC"
	default:
		return "created_at DESC, id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		Images:        copyStringArray(p.Images),
		Category:      p.Category,
		Tags:          copyStringArray(p.Tags),
		Stock:         p.Stock,
		SKU:           p.SKU,
		AverageRating: p.AverageRating,
		TotalReviews:  p.TotalReviews,
		RatingTotal:   p.RatingTotal,
		IsActive:      p.IsActive,
	}
	if p.CompareAtPrice != nil {
		rec.CompareAtPrice = decimal.NewNullDecimal(*p.CompareAtPrice)
	}
	return rec
}

func (r productRecord) toDomain() *domain.Product {
	p := &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Stock:         r.Stock,
		SKU:           r.SKU,
		AverageRating: r.AverageRating,
		TotalReviews:  r.TotalReviews,
		RatingTotal:   r.RatingTotal,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.CompareAtPrice.Valid {
		v := r.CompareAtPrice.Decimal
		p.CompareAtPrice = &v
	}
	if len(r.Images) > 0 {
		p.Images = append([]string{}, r.Images...)
	}
	if len(r.Tags) > 0 {
		p.Tags = append([]string{}, r.Tags...)
	}
	return p
}

func copyStringArray(values []string) pq.StringArray {
	if len(values) == 0 {
		return nil
	}
	return pq.StringArray(append([]string{}, values...))
}
