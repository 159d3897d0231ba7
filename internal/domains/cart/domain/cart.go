package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductID  = errors.New("product id is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Item is one cart line with a catalog snapshot taken when it was added.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int
}

// Cart belongs to exactly one user.
type Cart struct {
	UserID    string
	Items     []Item
	UpdatedAt time.Time
}

// New returns an empty cart for userID.
func New(userID string) *Cart {
	return &Cart{UserID: userID, Items: []Item{}}
}

// Total is the sum of price × quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// ItemCount is the number of distinct lines.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Quantity returns the quantity already in the cart for productID.
func (c *Cart) Quantity(productID string) int {
	if i := c.index(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// Add appends item or, when the product is already in the cart, increments
// its quantity and refreshes the snapshot.
func (c *Cart) Add(item Item) error {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return ErrEmptyProductID
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := c.index(item.ProductID); i >= 0 {
		item.Quantity += c.Items[i].Quantity
		c.Items[i] = item
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line. It reports whether the product was in the cart.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = quantity
	return true
}

// Remove drops the product's line and reports whether it was present.
func (c *Cart) Remove(productID string) bool {
	return c.SetQuantity(productID, 0)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]Item{}, c.Items...)
	return &clone
}

func (c *Cart) index(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
