package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/application/types"
	catalogdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/catalog/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Product is the JSON shape of a catalog entry.
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compareAtPrice"`
	Images         []string `json:"images"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Stock          int      `json:"stock"`
	SKU            string   `json:"sku,omitempty"`
	AverageRating  float64  `json:"averageRating"`
	TotalReviews   int      `json:"totalReviews"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

// ProductList is one page of products.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// ProductRequest is the create payload. Decimal fields accept JSON numbers or strings.
type ProductRequest struct {
	Name           string           `json:"name" binding:"required"`
	Slug           string           `json:"slug" binding:"required"`
	Description    string           `json:"description" binding:"required"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice"`
	Images         []string         `json:"images"`
	Category       string           `json:"category" binding:"required"`
	Tags           []string         `json:"tags"`
	Stock          int              `json:"stock"`
	SKU            string           `json:"sku"`
	IsActive       *bool            `json:"isActive"`
}

// ProductPatchRequest carries only the fields to change.
type ProductPatchRequest struct {
	Name           *string          `json:"name"`
	Slug           *string          `json:"slug"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice"`
	Images         *[]string        `json:"images"`
	Category       *string          `json:"category"`
	Tags           *[]string        `json:"tags"`
	SKU            *string          `json:"sku"`
	IsActive       *bool            `json:"isActive"`
}

// StockRequest adjusts stock by a signed quantity.
type StockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func ToProductInput(req ProductRequest) types.ProductInput {
	return types.ProductInput{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Images:         req.Images,
		Category:       req.Category,
		Tags:           req.Tags,
		Stock:          req.Stock,
		SKU:            req.SKU,
		IsActive:       req.IsActive,
	}
}

func ToProductPatch(req ProductPatchRequest) types.ProductPatch {
	return types.ProductPatch{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Images:         req.Images,
		Category:       req.Category,
		Tags:           req.Tags,
		SKU:            req.SKU,
		IsActive:       req.IsActive,
	}
}

func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	out := Product{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          httpx.Money(p.Price),
		CompareAtPrice: httpx.OptionalMoney(p.CompareAtPrice),
		Images:         nonNil(p.Images),
		Category:       p.Category,
		Tags:           nonNil(p.Tags),
		Stock:          p.Stock,
		SKU:            p.SKU,
		AverageRating:  httpx.Money(p.AverageRating),
		TotalReviews:   p.TotalReviews,
		IsActive:       p.IsActive,
		CreatedAt:      httpx.Timestamp(p.CreatedAt),
		UpdatedAt:      httpx.Timestamp(p.UpdatedAt),
	}
	return out
}

func FromProductPage(page pagination.Page[*catalogdomain.Product]) ProductList {
	mapped := pagination.Map(page, FromDomainProduct)
	return ProductList{Products: mapped.Items, Total: mapped.Total, Page: mapped.Page, Pages: mapped.Pages}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
