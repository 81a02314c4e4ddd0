// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	principalKey ContextKey = "principal"
	tokenKey     ContextKey = "token"
)

// ErrNoPrincipal is returned when a request carries no authenticated user.
var ErrNoPrincipal = errors.New("user ID not found in request context")

// Principal is the authenticated caller.
type Principal interface {
	GetUserID() uuid.UUID
	GetRole() string
}

// TokenValidator checks a bearer token, including its session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (Principal, error)
}

// BearerToken extracts the token of an "Authorization: Bearer" header,
// accepting any case for the scheme.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// principal and raw token in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			principal, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}

// GetPrincipal returns the authenticated caller of the request.
func GetPrincipal(r *http.Request) (Principal, error) {
	p, ok := r.Context().Value(principalKey).(Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	p, err := GetPrincipal(r)
	if err != nil {
		return uuid.Nil, err
	}
	return p.GetUserID(), nil
}

// GetToken returns the bearer token accepted for the request.
func GetToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

// WithPrincipal returns a copy of ctx carrying p, for handlers tested without
// the middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
