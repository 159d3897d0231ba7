package domain

import "github.com/shopspring/decimal"

var (
	// TaxRate is the flat sales tax applied to every subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// DefaultShippingCost applies when the checkout does not name one.
	DefaultShippingCost = decimal.RequireFromString("5.99")
)

// Totals are the amounts frozen on an order at creation.
type Totals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Discount     decimal.Decimal
	Total        decimal.Decimal
}

// ComputeTotals derives subtotal, tax and total for items.
// total = subtotal + shipping + tax - discount, tax rounded to cents.
// The discount is capped at the subtotal.
func ComputeTotals(items []Item, shipping, discount decimal.Decimal) (Totals, error) {
	if shipping.IsNegative() || discount.IsNegative() {
		return Totals{}, ErrNegativeAmount
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Discount:     discount,
		Total:        subtotal.Add(shipping).Add(tax).Sub(discount),
	}, nil
}
