// Package token signs and verifies HS256 access tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/ports"
)

// DefaultTTL is the access token lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

var (
	ErrEmptySecret = errors.New("jwt secret is required")
	ErrMalformed   = errors.New("token claims are incomplete")
)

var _ ports.Tokens = (*JWT)(nil)

// JWT issues tokens carrying user_id, role, jti and exp.
type JWT struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// New returns a signer for secret. A non-positive ttl falls back to DefaultTTL.
func New(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secret: []byte(secret), ttl: ttl, issuer: "foxnuts-farm-api"}, nil
}

func (j *JWT) Issue(userID, role string, now time.Time) (string, ports.Claims, error) {
	now = now.UTC().Truncate(time.Second)
	out := ports.Claims{
		UserID:    userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(j.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        out.TokenID,
			Issuer:    j.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(out.ExpiresAt),
		},
	})
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", ports.Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, out, nil
}

// Parse verifies the signature, algorithm and expiry of raw.
func (j *JWT) Parse(raw string) (ports.Claims, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return ports.Claims{}, err
	}
	if parsed.UserID == "" || parsed.ID == "" || parsed.ExpiresAt == nil {
		return ports.Claims{}, ErrMalformed
	}
	return ports.Claims{
		UserID:    parsed.UserID,
		Role:      parsed.Role,
		TokenID:   parsed.ID,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
