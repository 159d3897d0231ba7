package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
)

type normalizedPlaceOrder struct {
	UserID          string             `json:"userId"`
	Items           []normalizedItem   `json:"items"`
	ShippingAddress normalizedAddress  `json:"shippingAddress"`
	BillingAddress  *normalizedAddress `json:"billingAddress,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingCost    string             `json:"shippingCost,omitempty"`
	Notes           string             `json:"notes"`
}

type normalizedItem struct {
	ProductID string `json:"productId"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type normalizedAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// FingerprintPlaceOrder builds a deterministic hash of the checkout payload (excluding the idempotency key).
// Decimals are rendered in canonical form so 10 and 10.00 hash alike.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizePlaceOrder(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizePlaceOrder(input types.PlaceOrderInput) normalizedPlaceOrder {
	normalized := normalizedPlaceOrder{
		UserID:          strings.TrimSpace(input.UserID),
		Items:           make([]normalizedItem, 0, len(input.Items)),
		ShippingAddress: normalizeAddress(input.ShippingAddress),
		PaymentMethod:   strings.TrimSpace(input.PaymentMethod),
		Notes:           strings.TrimSpace(input.Notes),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
		})
	}
	if input.BillingAddress != nil {
		billing := normalizeAddress(*input.BillingAddress)
		normalized.BillingAddress = &billing
	}
	if input.ShippingCost != nil {
		normalized.ShippingCost = input.ShippingCost.String()
	}
	return normalized
}

func normalizeAddress(a domain.Address) normalizedAddress {
	return normalizedAddress{
		Name:    strings.TrimSpace(a.Name),
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
		Phone:   strings.TrimSpace(a.Phone),
	}
}
