package mapper

import (
	"github.com/Apurer/foxnuts-farm-api/internal/domains/newsletter/domain"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/httpx"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/pagination"
)

type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

type Subscriber struct {
	Email          string  `json:"email"`
	Name           *string `json:"name"`
	IsActive       bool    `json:"isActive"`
	SubscribedAt   string  `json:"subscribedAt"`
	UnsubscribedAt *string `json:"unsubscribedAt,omitempty"`
}

type SubscriberList struct {
	Subscribers []Subscriber `json:"subscribers"`
	Total       int64        `json:"total"`
	Page        int          `json:"page"`
	Pages       int          `json:"pages"`
}

// SubscribeMessage is the user-facing text for a subscribe outcome.
func SubscribeMessage(outcome domain.Outcome) string {
	switch outcome {
	case domain.Reactivated:
		return "Newsletter subscription reactivated"
	case domain.AlreadySubscribed:
		return "Already subscribed to newsletter"
	default:
		return "Successfully subscribed to newsletter"
	}
}

func FromDomainSubscriber(s *domain.Subscriber) Subscriber {
	out := Subscriber{
		Email:          s.Email,
		IsActive:       s.IsActive,
		SubscribedAt:   httpx.Timestamp(s.SubscribedAt),
		UnsubscribedAt: httpx.OptionalTimestamp(s.UnsubscribedAt),
	}
	if s.Name != "" {
		name := s.Name
		out.Name = &name
	}
	return out
}

func FromSubscriberPage(p pagination.Page[*domain.Subscriber]) SubscriberList {
	mapped := pagination.Map(p, FromDomainSubscriber)
	return SubscriberList{Subscribers: mapped.Items, Total: mapped.Total, Page: mapped.Page, Pages: mapped.Pages}
}
