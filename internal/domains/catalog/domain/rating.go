package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// RatingDirection tells the aggregator whether a rating joins or leaves the set.
type RatingDirection string

const (
	RatingAdd    RatingDirection = "add"
	RatingRemove RatingDirection = "remove"
)

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidDirection = errors.New("rating direction must be add or remove")
)

// ValidRating reports whether rating is on the 1-5 scale.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// ApplyRating folds one rating into the running aggregate.
//
// add:    count+1, avg = (avg*count + rating) / (count+1)
// remove: count-1 floored at 0, avg = (avg*count - rating) / (count-1), 0 when empty
//
// avg*count is carried exactly in RatingTotal so the stored average is the
// true mean of the current ratings rounded to two places.
func (p *Product) ApplyRating(rating int, direction RatingDirection) error {
	if !ValidRating(rating) {
		return ErrInvalidRating
	}
	switch direction {
	case RatingAdd:
		p.TotalReviews++
		p.RatingTotal += rating
	case RatingRemove:
		if p.TotalReviews > 0 {
			p.TotalReviews--
		}
		p.RatingTotal -= rating
		if p.TotalReviews == 0 || p.RatingTotal < 0 {
			p.RatingTotal = 0
		}
	default:
		return ErrInvalidDirection
	}
	p.AverageRating = AverageRating(p.RatingTotal, p.TotalReviews)
	return nil
}

// AverageRating is total/count rounded to two places, zero for an empty set.
func AverageRating(total, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).
		Div(decimal.NewFromInt(int64(count))).
		Round(2)
}
