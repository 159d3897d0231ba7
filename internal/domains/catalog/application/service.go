package application

import (
	"context"
	"strings"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/ports"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// DefaultPageSize applies when a listing does not ask for a limit.
const DefaultPageSize = 20

// Service orchestrates catalog use cases.
type Service struct {
	store ports.Store
}

func NewService(store ports.Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:           input.Name,
		Slug:           input.Slug,
		Description:    input.Description,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
		Images:         input.Images,
		Category:       input.Category,
		Tags:           input.Tags,
		Stock:          input.Stock,
		SKU:            input.SKU,
		IsActive:       true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.store.Save(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch types.ProductPatch) (*domain.Product, error) {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatch(product, patch)
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.store.Save(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.store.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *Service) ListProducts(ctx context.Context, query types.ListProductsQuery) (pagination.Page[*domain.Product], error) {
	filter := query.Filter
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return pagination.Page[*domain.Product]{}, mapError(ErrInvalidPriceRange)
	}
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Sort = types.ParseSortOrder(string(filter.Sort))
	tags := make([]string, 0, len(filter.Tags))
	for _, tag := range filter.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	filter.Tags = tags

	page := pagination.New(query.Page, query.Limit, DefaultPageSize)
	items, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

// DeleteProduct soft-deletes: the row stays so orders and reviews keep resolving it.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	product.IsActive = false
	_, err = s.store.Save(ctx, product)
	return err
}

// AdjustStock applies an admin correction; negative deltas never drive stock below zero.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	switch {
	case delta < 0:
		if err := s.store.Reserve(ctx, id, -delta); err != nil {
			return nil, mapError(err)
		}
	case delta > 0:
		if err := s.store.Release(ctx, id, delta); err != nil {
			return nil, mapError(err)
		}
	default:
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.store.Tags(ctx)
}

func (s *Service) ApplyRating(ctx context.Context, productID string, rating int, direction domain.RatingDirection) (*domain.Product, error) {
	if !domain.ValidRating(rating) {
		return nil, mapError(domain.ErrInvalidRating)
	}
	if direction != domain.RatingAdd && direction != domain.RatingRemove {
		return nil, mapError(domain.ErrInvalidDirection)
	}
	product, err := s.store.ApplyRating(ctx, productID, rating, direction)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func applyPatch(p *domain.Product, patch types.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CompareAtPrice != nil {
		v := *patch.CompareAtPrice
		p.CompareAtPrice = &v
	}
	if patch.Images != nil {
		p.Images = append([]string{}, (*patch.Images)...)
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
}

var _ ports.Service = (*Service)(nil)
