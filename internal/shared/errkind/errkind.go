// Package errkind defines the error taxonomy shared by every bounded context.
// Context-level sentinels wrap one of these kinds so adapters can classify
// failures with errors.Is without importing each context's sentinels.
package errkind

import "errors"

var (
	NotFound          = errors.New("not found")
	Unauthorized      = errors.New("unauthorized")
	Unauthenticated   = errors.New("unauthenticated")
	DuplicateReview   = errors.New("duplicate review")
	DuplicateKey      = errors.New("duplicate key")
	InsufficientStock = errors.New("insufficient stock")
	InvalidTransition = errors.New("invalid transition")
	Validation        = errors.New("validation failed")
)

// Tag returns an error reading msg that matches kind under errors.Is.
func Tag(kind error, msg string) error {
	return &tagged{kind: kind, msg: msg}
}

type tagged struct {
	kind error
	msg  string
}

func (t *tagged) Error() string { return t.msg }

func (t *tagged) Unwrap() error { return t.kind }

// Code returns the stable machine-readable code for err, or "internal".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, NotFound):
		return "not_found"
	case errors.Is(err, Unauthenticated):
		return "unauthenticated"
	case errors.Is(err, Unauthorized):
		return "unauthorized"
	case errors.Is(err, DuplicateReview):
		return "duplicate_review"
	case errors.Is(err, DuplicateKey):
		return "duplicate_key"
	case errors.Is(err, InsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, InvalidTransition):
		return "invalid_transition"
	case errors.Is(err, Validation):
		return "validation_error"
	default:
		return "internal"
	}
}

// Invalid tags a request decoding failure as a validation error.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return Tag(Validation, err.Error())
}

// FromCode rebuilds an error of the kind named by code, as returned by Code.
// It returns nil for unknown codes.
func FromCode(code, msg string) error {
	var kind error
	switch code {
	case "not_found":
		kind = NotFound
	case "unauthenticated":
		kind = Unauthenticated
	case "unauthorized":
		kind = Unauthorized
	case "duplicate_review":
		kind = DuplicateReview
	case "duplicate_key":
		kind = DuplicateKey
	case "insufficient_stock":
		kind = InsufficientStock
	case "invalid_transition":
		kind = InvalidTransition
	case "validation_error":
		kind = Validation
	default:
		return nil
	}
	return Tag(kind, msg)
}
