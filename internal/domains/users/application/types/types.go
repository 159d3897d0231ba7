package types

import (
	"time"

	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/domain"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// ProfilePatch updates the editable profile fields. Nil leaves a field unchanged.
type ProfilePatch struct {
	Name  *string
	Phone *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}
