package auth

import (
	"context"

	"github.com/jonathan/trade-connect/internal/server/middleware"
)

// AsTokenValidator adapts the service to the HTTP auth middleware.
func (s *Service) AsTokenValidator() middleware.TokenValidator {
	return tokenValidator{s}
}

type tokenValidator struct {
	service *Service
}

func (v tokenValidator) ValidateToken(ctx context.Context, token string) (middleware.Principal, error) {
	claims, err := v.service.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
