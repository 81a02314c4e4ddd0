package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/trade-connect/internal/config"
)

// Claims are the JWT claims of an access token. The registered ID (jti)
// names the session entry backing the token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the claims.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

// Generate signs a new token for the user.
func (s *TokenService) Generate(userID uuid.UUID, role string) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Lifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate verifies the signature and registered claims of a token.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &ErrInvalidToken{Reason: "token string is empty"}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, &ErrInvalidToken{Reason: "token expired", Err: err}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, &ErrInvalidToken{Reason: "invalid signature", Err: err}
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, &ErrInvalidToken{Reason: "malformed token", Err: err}
		default:
			return nil, &ErrInvalidToken{Reason: "failed to parse token", Err: err}
		}
	}
	if !token.Valid || claims.ID == "" || claims.UserID == uuid.Nil {
		return nil, &ErrInvalidToken{Reason: "token is not valid"}
	}
	return claims, nil
}

// GetRole returns the account role from the claims.
func (c *Claims) GetRole() string {
	return c.Role
}
