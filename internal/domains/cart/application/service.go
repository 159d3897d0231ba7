package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/ports"
)

// Service implements the shopping cart.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	now     func() time.Time
}

func NewService(repo ports.Repository, catalog ports.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Get returns the user's cart, or an empty one when none was stored yet.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	cart, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.New(userID), nil
	}
	return cart, err
}

// AddItem snapshots the product into the cart. The requested quantity must
// be in stock; an existing line is incremented.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	if productID == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	if quantity <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ports.ErrProductNotFound
	}
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.Stock)
	}
	return s.repo.Mutate(ctx, userID, true, func(c *domain.Cart) error {
		c.UpdatedAt = s.now().UTC()
		return mapError(c.Add(domain.Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		}))
	})
}

// UpdateItem overwrites a line's quantity; zero or less removes the line.
// Products not in the cart are ignored.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	if productID == "" {
		return nil, mapError(domain.ErrEmptyProductID)
	}
	return s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		c.SetQuantity(productID, quantity)
		c.UpdatedAt = s.now().UTC()
		return nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, mapError(ErrMissingUserID)
	}
	productID = strings.TrimSpace(productID)
	return s.repo.Mutate(ctx, userID, false, func(c *domain.Cart) error {
		c.Remove(productID)
		c.UpdatedAt = s.now().UTC()
		return nil
	})
}

// Clear stores an empty cart for the user.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return mapError(ErrMissingUserID)
	}
	_, err := s.repo.Mutate(ctx, userID, true, func(c *domain.Cart) error {
		c.Clear()
		c.UpdatedAt = s.now().UTC()
		return nil
	})
	return err
}

var _ ports.Service = (*Service)(nil)
