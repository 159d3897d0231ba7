package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyProductID = errors.New("product id is required")
	ErrTitleTooLong   = errors.New("title must be at most 200 characters")
	ErrCommentTooLong = errors.New("comment must be at most 5000 characters")
)

const (
	maxTitleLength   = 200
	maxCommentLength = 5000
)

// Review is one customer's rating of one product.
type Review struct {
	ID         string
	UserID     string
	ProductID  string
	Rating     int
	Title      string
	Comment    string
	IsVerified bool
	Helpful    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Normalize trims the free-text fields.
func (r *Review) Normalize() {
	r.ProductID = strings.TrimSpace(r.ProductID)
	r.Title = strings.TrimSpace(r.Title)
	r.Comment = strings.TrimSpace(r.Comment)
}

func (r *Review) Validate() error {
	if r.ProductID == "" {
		return ErrEmptyProductID
	}
	if !ValidRating(r.Rating) {
		return ErrInvalidRating
	}
	if len([]rune(r.Title)) > maxTitleLength {
		return ErrTitleTooLong
	}
	if len([]rune(r.Comment)) > maxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// OwnedBy reports whether userID wrote the review.
func (r *Review) OwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}

func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
