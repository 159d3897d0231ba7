package errkind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagMatchesKind(t *testing.T) {
	err := Tag(NotFound, "order not found")
	assert.Equal(t, "order not found", err.Error())
	assert.ErrorIs(t, err, NotFound)
	assert.NotErrorIs(t, err, Validation)

	wrapped := fmt.Errorf("%w: %w", Tag(Validation, "invalid order input"), errors.New("items are required"))
	assert.ErrorIs(t, wrapped, Validation)
	assert.Equal(t, "invalid order input: items are required", wrapped.Error())
}

func TestCode(t *testing.T) {
	cases := map[error]string{
		Tag(NotFound, "x"):          "not_found",
		Tag(Unauthorized, "x"):      "unauthorized",
		Tag(Unauthenticated, "x"):   "unauthenticated",
		Tag(DuplicateReview, "x"):   "duplicate_review",
		Tag(DuplicateKey, "x"):      "duplicate_key",
		Tag(InsufficientStock, "x"): "insufficient_stock",
		Tag(InvalidTransition, "x"): "invalid_transition",
		Tag(Validation, "x"):        "validation_error",
		errors.New("boom"):          "internal",
	}
	for err, code := range cases {
		assert.Equal(t, code, Code(err), err.Error())
	}
	assert.Empty(t, Code(nil))
}

func TestFromCodeRoundTrips(t *testing.T) {
	for _, kind := range []error{NotFound, Unauthorized, Unauthenticated, DuplicateReview, DuplicateKey, InsufficientStock, InvalidTransition, Validation} {
		rebuilt := FromCode(Code(Tag(kind, "x")), "insufficient stock for Makhana")
		assert.ErrorIs(t, rebuilt, kind)
		assert.Equal(t, "insufficient stock for Makhana", rebuilt.Error())
	}
	assert.Nil(t, FromCode("internal", "boom"))
}
