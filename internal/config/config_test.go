package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_SESSION_BACKEND", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("STOREFRONT_BREAKER_FAILURES", "")
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8082/api/v1", cfg.APIURL)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, uint32(5), cfg.BreakerFailures)
	assert.Equal(t, SessionBackendBolt, cfg.SessionBackend)
	assert.Equal(t, "session.db", filepath.Base(cfg.SessionPath))
	assert.Equal(t, "8082", cfg.BackendPort)
	assert.Equal(t, 20, cfg.BackendRateLimit)
	assert.False(t, cfg.CatalogCache)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://shop:9000/api/v1")
	t.Setenv("STOREFRONT_REQUEST_TIMEOUT", "5s")
	t.Setenv("STOREFRONT_SESSION_BACKEND", "redis")
	t.Setenv("STOREFRONT_CATALOG_CACHE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "http://shop:9000/api/v1", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.True(t, cfg.CatalogCache)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_DotEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set
	t.Setenv("BACKEND_PORT", "")
	os.Unsetenv("BACKEND_PORT")
	t.Setenv("BACKEND_JWT_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BACKEND_PORT=9999\nBACKEND_JWT_SECRET=from-file\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.BackendPort)
	assert.Equal(t, "from-env", cfg.BackendJWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STOREFRONT_REQUEST_TIMEOUT", "soon"},
		{"STOREFRONT_CATALOG_CACHE", "maybe"},
		{"BACKEND_RATE_LIMIT", "lots"},
		{"STOREFRONT_BREAKER_FAILURES", "-1"},
		{"STOREFRONT_SESSION_BACKEND", "cookies"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

			assert.Error(t, err)
		})
	}
}
