package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultFromEmail     = "CPG Hub <notifications@cpghub.com>"
	DefaultResendAPIURL  = "https://api.resend.com"
	DefaultHTTPAddr      = ":8080"
	DefaultCronSpec      = "0 3 * * *" // 03:00 daily
	DefaultClientTimeout = 10 * time.Second
	DefaultClaimTTL      = 15 * time.Minute
	defaultLogLevel      = "info"
	defaultEnvironment   = "development"

	EnvSupabaseURL        = "SUPABASE_URL"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_ROLE_KEY"
)

// AppConfig holds all configuration for the cleanup service.
// It is built once in main and passed down explicitly.
type AppConfig struct {
	SupabaseURL        string
	SupabaseServiceKey string
	ResendAPIKey       string
	ResendAPIURL       string
	FromEmail          string

	DatabaseURL string // optional: direct Postgres access instead of the REST API
	RedisURL    string // optional: per-job claims across overlapping runs
	ClaimTTL    time.Duration

	HTTPAddr          string
	HTTPClientTimeout time.Duration
	CronSpecCleanup   string

	TelegramToken   string // optional: operator bot
	AdminTelegramID int64

	LogLevel    string
	Environment string
}

// ConfigurationError reports a required setting that is absent.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// Load reads configuration from environment variables and .env file (if present).
// Data store settings are not validated here; stores report a ConfigurationError
// on first use so that a misconfigured deployment still answers the trigger.
func Load() (*AppConfig, error) {
	// godotenv.Load does not override variables that are already set.
	_ = godotenv.Load()

	cfg := &AppConfig{
		SupabaseURL:        strings.TrimRight(strings.TrimSpace(os.Getenv(EnvSupabaseURL)), "/"),
		SupabaseServiceKey: strings.TrimSpace(os.Getenv(EnvSupabaseServiceKey)),
		ResendAPIKey:       strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		ResendAPIURL:       getenv("RESEND_API_URL", DefaultResendAPIURL),
		FromEmail:          getenv("FROM_EMAIL", DefaultFromEmail),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		HTTPAddr:           getenv("HTTP_ADDR", DefaultHTTPAddr),
		CronSpecCleanup:    getenv("CRON_SPEC_CLEANUP", DefaultCronSpec),
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:           strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
		Environment:        strings.ToLower(getenv("ENVIRONMENT", defaultEnvironment)),
	}

	var err error
	if cfg.HTTPClientTimeout, err = getDuration("HTTP_CLIENT_TIMEOUT", DefaultClientTimeout); err != nil {
		return nil, err
	}
	if cfg.ClaimTTL, err = getDuration("CLAIM_TTL", DefaultClaimTTL); err != nil {
		return nil, err
	}

	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
