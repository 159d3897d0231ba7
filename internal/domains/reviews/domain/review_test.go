package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReview_Validate(t *testing.T) {
	valid := Review{ProductID: "p1", Rating: 4}
	assert.NoError(t, valid.Validate())

	cases := map[string]struct {
		review Review
		want   error
	}{
		"missing product": {Review{Rating: 3}, ErrEmptyProductID},
		"rating zero":     {Review{ProductID: "p1"}, ErrInvalidRating},
		"rating six":      {Review{ProductID: "p1", Rating: 6}, ErrInvalidRating},
		"long title":      {Review{ProductID: "p1", Rating: 2, Title: strings.Repeat("a", 201)}, ErrTitleTooLong},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tc.review.Validate(), tc.want)
		})
	}
}

func TestReview_OwnedBy(t *testing.T) {
	r := Review{UserID: "u1"}
	assert.True(t, r.OwnedBy("u1"))
	assert.False(t, r.OwnedBy("u2"))
	assert.False(t, (&Review{}).OwnedBy(""))
}
