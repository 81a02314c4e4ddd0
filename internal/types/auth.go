// Package types provides the request and response shapes of the Trade
// Connect API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// User is the public view of an account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	PICName   string    `json:"pic_name"`
	Phone     string    `json:"phone,omitempty"`
	Province  string    `json:"province,omitempty"`
	Initials  string    `json:"initials"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest carries a validated registration form.
type RegisterRequest struct {
	AccountType string `json:"accountType" validate:"required,oneof=supplier buyer"`
	Province    string `json:"province" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Company     string `json:"company" validate:"required"`
	PICName     string `json:"picName" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
}

// Validate checks the struct-level invariants of the request.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormErrorResponse is the body of a request whose form failed validation.
type FormErrorResponse struct {
	Errors map[string]string `json:"errors"`
}
