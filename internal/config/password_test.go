package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", cost: "", wantCost: 12},
		{name: "minimum cost", cost: "10", wantCost: 10},
		{name: "maximum cost", cost: "14", wantCost: 14},
		{name: "with pepper", cost: "11", pepper: "spice", wantCost: 11},
		{name: "cost too low", cost: "9", wantErr: true},
		{name: "cost too high", cost: "15", wantErr: true},
		{name: "non-numeric cost", cost: "strong", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, cfg.VerifyPassword("password123", hash))
	assert.False(t, cfg.VerifyPassword("password124", hash))
	assert.False(t, cfg.VerifyPassword("password123", "not-a-hash"))

	again, err := cfg.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt salts every hash")
}

func TestVerifyPassword_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("secret-pass")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret-pass", hash))
	assert.False(t, plain.VerifyPassword("secret-pass", hash))
}
