package config

import (
	"fmt"
	"os"
	"time"
)

const defaultJWTIssuer = "trade-connect"

// JWTConfig holds the signing secret and lifetime of access tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig reads JWT_SECRET (required), JWT_EXPIRATION_HOURS (default
// 24) and JWT_ISSUER.
func NewJWTConfig() (*JWTConfig, error) {
	hours, err := envInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = defaultJWTIssuer
	}

	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: hours,
		Issuer:          issuer,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// Lifetime is the validity period of an issued token.
func (c *JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
