package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates the email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password alike.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates the token names a user that no longer exists.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrInvalidToken indicates a token that failed parsing or signature checks.
type ErrInvalidToken struct {
	Reason string
	Err    error
}

func (e *ErrInvalidToken) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

func (e *ErrInvalidToken) Unwrap() error {
	return e.Err
}

// ErrSessionExpired indicates a well-formed token whose session was logged
// out or has lapsed.
type ErrSessionExpired struct{}

func (e *ErrSessionExpired) Error() string {
	return "session expired"
}
