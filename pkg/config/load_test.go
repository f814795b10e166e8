package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_BASIC_AUTH_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	require.NotNil(t, cfg.Server.BasicAuth)
	assert.Equal(t, "cobank", cfg.Server.BasicAuth.Username)
	assert.Equal(t, "secret", cfg.Server.BasicAuth.Password)

	assert.Equal(t, "NL", cfg.Iban.CountryCode)
	assert.Equal(t, "00", cfg.Iban.CheckDigits)
	assert.Equal(t, "COOP", cfg.Iban.BankCode)
	assert.Equal(t, 10, cfg.Iban.AccountNumberLength)

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, float64(2), cfg.Retry.Multiplier)
	assert.Equal(t, 5*time.Second, cfg.Retry.AttemptTimeout)

	assert.Equal(t, "memory", cfg.HistoryCache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.HistoryCache.TTL)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_BASIC_AUTH_PASSWORD", "secret")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("HISTORY_CACHE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, "redis", cfg.HistoryCache.Backend)
}

func TestLoad_MissingEnvFileIsNotFatal(t *testing.T) {
	t.Setenv("SERVER_BASIC_AUTH_PASSWORD", "secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
