// Package errors renders RFC 7807 problem responses for the Foxnuts Farm API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem. Code is a stable machine-readable
// member clients switch on; Detail is for humans.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// Problem type URIs, relative to the responder's base URI.
const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeInternal     = "/problems/internal-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeForbidden    = "/problems/forbidden"
	TypeOutOfStock   = "/problems/insufficient-stock"
	TypeTransition   = "/problems/invalid-transition"
	TypeDuplicate    = "/problems/duplicate"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
		Code:   "not_found",
	}
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Code:   "validation_error",
	}
	// ErrUnauthorized is a missing, expired or revoked credential.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Code:   "unauthenticated",
	}
	// ErrForbidden is an authenticated caller acting on something it does not own.
	ErrForbidden = ProblemDetail{
		Type:   TypeForbidden,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Code:   "unauthorized",
	}
	ErrInsufficientStock = ProblemDetail{
		Type:   TypeOutOfStock,
		Title:  "Insufficient Stock",
		Status: http.StatusConflict,
		Code:   "insufficient_stock",
	}
	ErrInvalidTransition = ProblemDetail{
		Type:   TypeTransition,
		Title:  "Invalid Status Transition",
		Status: http.StatusConflict,
		Code:   "invalid_transition",
	}
	ErrDuplicate = ProblemDetail{
		Type:   TypeDuplicate,
		Title:  "Duplicate Resource",
		Status: http.StatusConflict,
		Code:   "duplicate_key",
	}
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Code:   "internal",
		Detail: "an unexpected error occurred",
	}
)
