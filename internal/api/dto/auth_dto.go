package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/library-service/internal/auth"
)

// passwordBytes caps passwords at what bcrypt can hash. Length counts runes,
// so it cannot express this on its own.
var passwordBytes = validation.NewStringRule(func(s string) bool {
	return len(s) <= auth.MaxPasswordBytes
}, "must be at most 72 bytes")

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Validate checks the payload shape.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0), passwordBytes),
		validation.Field(&r.FullName, validation.Length(0, 255)),
	)
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload shape.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest optionally carries the token in the body.
type RefreshRequest struct {
	Token string `json:"token"`
}

// ResetPasswordRequest payload for changing the caller's password.
type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate checks the payload shape.
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 0), passwordBytes),
	)
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
