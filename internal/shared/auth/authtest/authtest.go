// Package authtest provides fixed-token authentication for handler tests.
package authtest

import (
	"context"
	"net/http"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/auth"
	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

const (
	CustomerToken = "customer-token"
	OtherToken    = "other-customer-token"
	AdminToken    = "admin-token"

	CustomerID = "user-customer"
	OtherID    = "user-other"
	AdminID    = "user-admin"
)

// Authenticator resolves the fixed tokens above.
type Authenticator map[string]auth.Principal

// New returns an Authenticator knowing one customer, a second customer and an admin.
func New() Authenticator {
	return Authenticator{
		CustomerToken: {UserID: CustomerID, Role: auth.RoleCustomer, TokenID: "jti-customer"},
		OtherToken:    {UserID: OtherID, Role: auth.RoleCustomer, TokenID: "jti-other"},
		AdminToken:    {UserID: AdminID, Role: auth.RoleAdmin, TokenID: "jti-admin"},
	}
}

func (a Authenticator) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return auth.Principal{}, errkind.Tag(errkind.Unauthenticated, "invalid or expired token")
}

// Middleware wires the fixed authenticator with the default responder.
func Middleware() *auth.Middleware {
	return auth.NewMiddleware(New(), nil)
}

// Authorize sets the bearer header on req.
func Authorize(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
