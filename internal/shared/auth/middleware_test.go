package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

type staticAuthenticator map[string]Principal

func (s staticAuthenticator) Authenticate(_ context.Context, token string) (Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return Principal{}, errkind.Tag(errkind.Unauthenticated, "invalid token")
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewMiddleware(staticAuthenticator{
		"customer-token": {UserID: "u-1", Role: RoleCustomer},
		"admin-token":    {UserID: "u-2", Role: RoleAdmin},
	}, nil)
	r := gin.New()
	whoami := func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "authenticated": ok})
	}
	r.GET("/me", mw.Required(), whoami)
	r.GET("/admin", mw.Required(), mw.RequireAdmin(), whoami)
	r.GET("/public", mw.Optional(), whoami)
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequired(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(r, "/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(r, "/me", "customer-token")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["userId"])
}

func TestRequireAdmin(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", "customer-token").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/admin", "admin-token").Code)
}

func TestOptional(t *testing.T) {
	r := newTestRouter()

	var body map[string]any
	rec := doRequest(r, "/public", "bogus")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["authenticated"])

	rec = doRequest(r, "/public", "admin-token")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken(""))
}
