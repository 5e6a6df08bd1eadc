package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, cfg.App.Env, cfg.HTTP.Env)
	assert.Equal(t, 720*time.Hour, cfg.Token.Duration)
	assert.Equal(t, "/api", cfg.Backend.BasePath)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CatalogTTL)
	assert.Empty(t, cfg.MQ.URL)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "dev-secret")
	t.Setenv("BACKEND_HOST", "api.motorent.test")
	t.Setenv("BACKEND_SCHEME", "https")
	t.Setenv("REDIS_CATALOG_TTL", "30s")
	t.Setenv("OTEL_ENDPOINT", "collector:4317")
	t.Setenv("DB_NAME", "rentals")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "api.motorent.test", cfg.Backend.Host)
	assert.Equal(t, "https", cfg.Backend.Scheme)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogTTL)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Contains(t, cfg.DB.DSN(), "dbname=rentals")
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")
	require.NoError(t, os.Unsetenv("TOKEN_SECRET"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadProductionSecretLength(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}
