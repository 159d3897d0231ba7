// Package auth carries the authenticated caller through gin handlers.
package auth

import (
	"context"
	"strings"
)

// Roles recognised by the API.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Principal identifies the caller of a request.
type Principal struct {
	UserID  string
	Role    string
	TokenID string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Authenticator resolves a bearer token into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
