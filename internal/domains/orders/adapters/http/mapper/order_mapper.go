package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

// Address is the JSON shape of a postal address.
type Address struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// Item is one order line.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// HistoryEntry is one status change.
type HistoryEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note"`
}

// Order is the JSON shape of an order.
type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	OrderNumber     string         `json:"orderNumber"`
	Items           []Item         `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	ShippingCost    float64        `json:"shippingCost"`
	Tax             float64        `json:"tax"`
	Discount        float64        `json:"discount"`
	Total           float64        `json:"total"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  Address        `json:"billingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentStatus   string         `json:"paymentStatus"`
	OrderStatus     string         `json:"orderStatus"`
	TrackingNumber  string         `json:"trackingNumber"`
	TrackingCarrier string         `json:"trackingCarrier"`
	StatusHistory   []HistoryEntry `json:"statusHistory"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// OrderList is one page of orders.
type OrderList struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
}

// Tracking is the public projection returned by order tracking.
type Tracking struct {
	OrderNumber     string         `json:"orderNumber"`
	OrderStatus     string         `json:"orderStatus"`
	TrackingNumber  string         `json:"trackingNumber"`
	TrackingCarrier string         `json:"trackingCarrier"`
	StatusHistory   []HistoryEntry `json:"statusHistory"`
	CreatedAt       string         `json:"createdAt"`
}

// ItemRequest is one requested line. Name is optional.
type ItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderRequest is the checkout payload. Unknown fields such as a discount are ignored.
type OrderRequest struct {
	Items           []ItemRequest    `json:"items" binding:"required"`
	ShippingAddress Address          `json:"shippingAddress"`
	BillingAddress  *Address         `json:"billingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	ShippingCost    *decimal.Decimal `json:"shippingCost"`
	Notes           string           `json:"notes"`
}

// StatusRequest sets the order status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// TrackingRequest records a shipment.
type TrackingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

// PaymentRequest sets the payment status.
type PaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

func ToPlaceOrderInput(userID, idempotencyKey string, req OrderRequest) types.PlaceOrderInput {
	input := types.PlaceOrderInput{
		UserID:          userID,
		Items:           make([]types.ItemInput, 0, len(req.Items)),
		ShippingAddress: toDomainAddress(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		ShippingCost:    req.ShippingCost,
		Notes:           req.Notes,
		IdempotencyKey:  idempotencyKey,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, types.ItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	if req.BillingAddress != nil {
		billing := toDomainAddress(*req.BillingAddress)
		input.BillingAddress = &billing
	}
	return input
}

func FromDomainOrder(o *orderdomain.Order) Order {
	if o == nil {
		return Order{}
	}
	out := Order{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Items:           make([]Item, 0, len(o.Items)),
		Subtotal:        httpx.Money(o.Subtotal),
		ShippingCost:    httpx.Money(o.ShippingCost),
		Tax:             httpx.Money(o.Tax),
		Discount:        httpx.Money(o.Discount),
		Total:           httpx.Money(o.Total),
		ShippingAddress: fromDomainAddress(o.ShippingAddress),
		BillingAddress:  fromDomainAddress(o.BillingAddress),
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   string(o.PaymentStatus),
		OrderStatus:     string(o.Status),
		TrackingNumber:  o.TrackingNumber,
		TrackingCarrier: o.TrackingCarrier,
		StatusHistory:   fromHistory(o.History),
		Notes:           o.Notes,
		CreatedAt:       httpx.Timestamp(o.CreatedAt),
		UpdatedAt:       httpx.Timestamp(o.UpdatedAt),
	}
	for _, item := range o.Items {
		out.Items = append(out.Items, Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     httpx.Money(item.Price),
			Quantity:  item.Quantity,
		})
	}
	return out
}

func FromOrderPage(p pagination.Page[*orderdomain.Order]) OrderList {
	mapped := pagination.Map(p, FromDomainOrder)
	return OrderList{Orders: mapped.Items, Total: mapped.Total, Page: mapped.Page, Pages: mapped.Pages}
}

func FromTracking(t *types.Tracking) Tracking {
	return Tracking{
		OrderNumber:     t.OrderNumber,
		OrderStatus:     string(t.Status),
		TrackingNumber:  t.TrackingNumber,
		TrackingCarrier: t.TrackingCarrier,
		StatusHistory:   fromHistory(t.History),
		CreatedAt:       httpx.Timestamp(t.CreatedAt),
	}
}

func fromHistory(entries []orderdomain.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{Status: string(e.Status), Timestamp: httpx.Timestamp(e.Timestamp), Note: e.Note})
	}
	return out
}

func toDomainAddress(a Address) orderdomain.Address {
	return orderdomain.Address(a)
}

func fromDomainAddress(a orderdomain.Address) Address {
	return Address(a)
}
