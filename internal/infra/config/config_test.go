package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvSupabaseURL, EnvSupabaseServiceKey, "RESEND_API_KEY", "RESEND_API_URL", "FROM_EMAIL",
		"DATABASE_URL", "REDIS_URL", "CLAIM_TTL", "HTTP_ADDR", "HTTP_CLIENT_TIMEOUT",
		"CRON_SPEC_CLEANUP", "TELEGRAM_TOKEN", "ADMIN_TELEGRAM_ID", "LOG_LEVEL", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.SupabaseURL)
	assert.Empty(t, cfg.SupabaseServiceKey)
	assert.Equal(t, DefaultFromEmail, cfg.FromEmail)
	assert.Equal(t, DefaultResendAPIURL, cfg.ResendAPIURL)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultCronSpec, cfg.CronSpecCleanup)
	assert.Equal(t, DefaultClientTimeout, cfg.HTTPClientTimeout)
	assert.Equal(t, DefaultClaimTTL, cfg.ClaimTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSupabaseURL, "https://project.supabase.co/")
	t.Setenv(EnvSupabaseServiceKey, " service-key ")
	t.Setenv("FROM_EMAIL", "Jobs <jobs@example.com>")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "service-key", cfg.SupabaseServiceKey)
	assert.Equal(t, "Jobs <jobs@example.com>", cfg.FromEmail)
	assert.Equal(t, 3*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, int64(42), cfg.AdminTelegramID)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad timeout", key: "HTTP_CLIENT_TIMEOUT", val: "soon"},
		{name: "negative claim ttl", key: "CLAIM_TTL", val: "-1m"},
		{name: "bad admin id", key: "ADMIN_TELEGRAM_ID", val: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresAdminWithTelegramToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "token")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfigurationErrorMessage(t *testing.T) {
	var err error = &ConfigurationError{Key: EnvSupabaseURL}

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "missing required configuration: SUPABASE_URL", err.Error())
}
