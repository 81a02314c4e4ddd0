package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		issuer     string
		wantHours  int
		wantIssuer string
		wantErr    string
	}{
		{name: "defaults", secret: "s", wantHours: 24, wantIssuer: "trade-connect"},
		{name: "custom", secret: "s", expiration: "2", issuer: "tc-test", wantHours: 2, wantIssuer: "tc-test"},
		{name: "missing secret", wantErr: "JWT_SECRET is required"},
		{name: "zero hours", secret: "s", expiration: "0", wantErr: "at least 1 hour"},
		{name: "bad hours", secret: "s", expiration: "day", wantErr: "invalid JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)
			t.Setenv("JWT_ISSUER", tt.issuer)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
			assert.Equal(t, tt.wantIssuer, cfg.Issuer)
			assert.Equal(t, time.Duration(tt.wantHours)*time.Hour, cfg.Lifetime())
		})
	}
}
