package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidEmail = errors.New("invalid email format")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Outcome describes what Subscribe did.
type Outcome string

const (
	Subscribed        Outcome = "subscribed"
	Reactivated       Outcome = "reactivated"
	AlreadySubscribed Outcome = "already_subscribed"
)

// Subscriber is one newsletter signup, keyed by email.
type Subscriber struct {
	Email          string
	Name           string
	IsActive       bool
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail lowercases and trims email and validates its format.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Reactivate turns an inactive signup back on. It reports whether anything changed.
func (s *Subscriber) Reactivate(now time.Time) bool {
	if s.IsActive {
		return false
	}
	s.IsActive = true
	s.UnsubscribedAt = nil
	s.UpdatedAt = now
	return true
}

// Deactivate records an unsubscribe.
func (s *Subscriber) Deactivate(now time.Time) {
	s.IsActive = false
	s.UnsubscribedAt = &now
	s.UpdatedAt = now
}

func (s *Subscriber) Clone() *Subscriber {
	if s == nil {
		return nil
	}
	c := *s
	if s.UnsubscribedAt != nil {
		at := *s.UnsubscribedAt
		c.UnsubscribedAt = &at
	}
	return &c
}
