package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_TOKEN", "secret")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("CART_LOOKUP_SCOPED_BY_USER", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.AppPort)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL())
	assert.Equal(t, 1<<20, cfg.MaxUploadBytes)
	assert.Equal(t, "memory", cfg.EmailQueue)
	assert.True(t, cfg.CartLookupScopedByUser)
	assert.Contains(t, cfg.DSN(), "dbname=flowershop")
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("APP_TOKEN", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDSNPrefersURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db:5432/shop"}
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DSN())
}
