package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/cart/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     *string `json:"image"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// ItemRequest is the body of add and update.
type ItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func FromDomainCart(c *domain.Cart) Cart {
	out := Cart{Items: []Item{}}
	if c == nil {
		return out
	}
	for _, item := range c.Items {
		mapped := Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     httpx.Money(item.Price),
			Quantity:  item.Quantity,
		}
		if item.Image != "" {
			image := item.Image
			mapped.Image = &image
		}
		out.Items = append(out.Items, mapped)
	}
	out.Total = httpx.Money(c.Total())
	out.ItemCount = c.ItemCount()
	return out
}
