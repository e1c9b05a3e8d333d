package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "3000")
	t.Setenv("DB_USER", "tattler")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "TattlerDB")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 8, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.IsDev())
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadBcryptCost(t *testing.T) {
	setRequired(t)
	t.Setenv("BCRYPT_COST", "2")

	_, err := Load()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get,HEAD")

	cfg, err := LoadCacheConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Caches("GET"))
	assert.True(t, cfg.Caches("head"))
	assert.False(t, cfg.Caches("POST"))
	assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestRateLimitNormalize(t *testing.T) {
	cfg := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 2 * time.Second, TTL: time.Second}.Normalize()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestRedisAddressPrefersHostPort(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380", Addr: "ignored:1"}.Address())
	assert.Equal(t, "localhost:6379", RedisConfig{Addr: "localhost:6379"}.Address())
}
