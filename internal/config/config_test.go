package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "1h", cfg.JWTAccessExpiry)
	assert.Equal(t, int64(10), cfg.RecommendQuota)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://policyhub.kr,https://staging.policyhub.kr")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://policyhub.kr", "https://staging.policyhub.kr"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_InvalidAccessExpiry(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_EXPIRY")
}

func TestLoad_EmptyJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	assert.Error(t, err)
}
