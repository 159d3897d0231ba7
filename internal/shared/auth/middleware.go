package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
	apierrors "github.com/Apurer/foxnuts-farm-api/internal/shared/errors"
)

const principalKey = "auth.principal"

var (
	errMissingToken = errkind.Tag(errkind.Unauthenticated, "authentication token is missing")
	errAdminOnly    = errkind.Tag(errkind.Unauthorized, "admin access required")
)

// Middleware builds gin middleware around an Authenticator.
type Middleware struct {
	authenticator Authenticator
	responder     *apierrors.ChainedResponder
}

// NewMiddleware wires the authenticator and the responder used for rejections.
func NewMiddleware(authenticator Authenticator, responder *apierrors.ChainedResponder) *Middleware {
	if responder == nil {
		responder = apierrors.NewDomainResponder("")
	}
	return &Middleware{authenticator: authenticator, responder: responder}
}

// Required rejects requests without a valid bearer token.
func (m *Middleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			m.responder.RespondError(c, errMissingToken)
			c.Abort()
			return
		}
		principal, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			m.responder.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// Optional attaches a principal when a valid token is present and never rejects.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c.GetHeader("Authorization")); token != "" {
			if principal, err := m.authenticator.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after Required.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			m.responder.RespondError(c, errMissingToken)
			c.Abort()
			return
		}
		if !principal.IsAdmin() {
			m.responder.RespondError(c, errAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal attached by the middleware.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}
