package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/subscriptions/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
)

// Subscription is the JSON shape of a subscription.
type Subscription struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName,omitempty"`
	Quantity     int     `json:"quantity"`
	Frequency    string  `json:"frequency"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	NextDelivery string  `json:"nextDelivery"`
	CancelledAt  *string `json:"cancelledAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

type SubscriptionList struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

type CreateRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
	Frequency string `json:"frequency"`
}

type UpdateRequest struct {
	Quantity  *int    `json:"quantity"`
	Frequency *string `json:"frequency"`
}

// ToCreateInput applies the defaults of one unit delivered monthly.
func ToCreateInput(userID string, req CreateRequest) types.CreateInput {
	input := types.CreateInput{UserID: userID, ProductID: req.ProductID, Quantity: 1, Frequency: string(domain.Monthly)}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}
	if req.Frequency != "" {
		input.Frequency = req.Frequency
	}
	return input
}

func ToPatch(req UpdateRequest) types.Patch {
	return types.Patch{Quantity: req.Quantity, Frequency: req.Frequency}
}

func FromDomainSubscription(s *domain.Subscription) Subscription {
	if s == nil {
		return Subscription{}
	}
	return Subscription{
		ID:           s.ID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		Frequency:    string(s.Frequency),
		Price:        httpx.Money(s.Price),
		Status:       string(s.Status),
		NextDelivery: httpx.Timestamp(s.NextDelivery),
		CancelledAt:  httpx.OptionalTimestamp(s.CancelledAt),
		CreatedAt:    httpx.Timestamp(s.CreatedAt),
	}
}

func FromViews(views []types.View) SubscriptionList {
	out := SubscriptionList{Subscriptions: make([]Subscription, 0, len(views))}
	for _, v := range views {
		s := FromDomainSubscription(v.Subscription)
		s.ProductName = v.ProductName
		out.Subscriptions = append(out.Subscriptions, s)
	}
	return out
}
