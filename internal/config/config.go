// Package config loads and validates the application configuration
// from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the application version, injected at build time via -ldflags.
var Version = "dev"

// Config holds all configuration parameters of the portal.
type Config struct {
	// --- Server ---

	// HTTP server port
	Port int
	// Log level (debug, info, warn, error)
	LogLevel slog.Level
	// Log format (json, text)
	LogFormat string

	// --- PostgreSQL (record store) ---

	// PostgreSQL host
	DBHost string
	// PostgreSQL port
	DBPort int
	// Database name
	DBName string
	// PostgreSQL user
	DBUser string
	// PostgreSQL password
	DBPassword string
	// SSL mode: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Blob store (object store) ---

	// Base URL of the blob storage service (empty disables logo upload)
	BlobStoreURL string
	// Bearer credential for the blob storage service
	BlobStoreKey string
	// Default bucket for uploaded assets
	BlobStoreBucket string

	// --- Product ---

	// Display name of the product
	ProductName string
	// Price shown on the review step
	ProductPrice int
	// ISO currency code
	ProductCurrency string

	// --- External credentials (presence only, unused by the core) ---

	// Stripe publishable key (future payment integration)
	StripePublishableKey string
	// OpenAI API key (future content generation)
	OpenAIAPIKey string

	// --- Developer tooling ---

	// Enables the /test probe pages
	TestPagesEnabled bool

	// --- Monitoring ---

	// Dependency health check interval
	DephealthCheckInterval time.Duration
	// Metric group name for dephealth
	DephealthGroup string

	// --- Graceful shutdown ---

	// HTTP server graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// Load reads the configuration from environment variables, validates
// required fields and returns a Config or an error.
//
// The blob store endpoint and credential are deliberately not required:
// when absent a warning is logged at startup and logo upload is disabled,
// while handbook submissions keep working.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Server ---

	// HB_PORT — HTTP server port (default 8080)
	cfg.Port, err = getEnvInt("HB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("HB_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("HB_PORT: value %d outside the valid range 1-65535", cfg.Port)
	}

	// HB_LOG_LEVEL — log level (default info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("HB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("HB_LOG_LEVEL: %w", err)
	}

	// HB_LOG_FORMAT — log format (default json)
	cfg.LogFormat = getEnvDefault("HB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("HB_LOG_FORMAT: invalid value %q, allowed: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// HB_DB_HOST — required
	cfg.DBHost, err = getEnvRequired("HB_DB_HOST")
	if err != nil {
		return nil, err
	}

	// HB_DB_PORT — PostgreSQL port (default 5432)
	cfg.DBPort, err = getEnvInt("HB_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("HB_DB_PORT: %w", err)
	}

	// HB_DB_NAME — required
	cfg.DBName, err = getEnvRequired("HB_DB_NAME")
	if err != nil {
		return nil, err
	}

	// HB_DB_USER — required
	cfg.DBUser, err = getEnvRequired("HB_DB_USER")
	if err != nil {
		return nil, err
	}

	// HB_DB_PASSWORD — required
	cfg.DBPassword, err = getEnvRequired("HB_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// HB_DB_SSL_MODE — SSL mode (default disable)
	cfg.DBSSLMode = getEnvDefault("HB_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("HB_DB_SSL_MODE: invalid value %q, allowed: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Blob store ---

	// HB_BLOBSTORE_URL — optional, warn-only (see Warnings)
	cfg.BlobStoreURL = strings.TrimRight(getEnvDefault("HB_BLOBSTORE_URL", ""), "/")

	// HB_BLOBSTORE_KEY — optional, warn-only
	cfg.BlobStoreKey = getEnvDefault("HB_BLOBSTORE_KEY", "")

	// HB_BLOBSTORE_BUCKET — default bucket (default handbooks)
	cfg.BlobStoreBucket = getEnvDefault("HB_BLOBSTORE_BUCKET", "handbooks")

	// --- Product ---

	// HB_PRODUCT_NAME — product display name
	cfg.ProductName = getEnvDefault("HB_PRODUCT_NAME", "Föreningshandboken")

	// HB_PRODUCT_PRICE — price on the review step (default 299)
	cfg.ProductPrice, err = getEnvInt("HB_PRODUCT_PRICE", 299)
	if err != nil {
		return nil, fmt.Errorf("HB_PRODUCT_PRICE: %w", err)
	}
	if cfg.ProductPrice < 0 {
		return nil, fmt.Errorf("HB_PRODUCT_PRICE: value %d must not be negative", cfg.ProductPrice)
	}

	// HB_PRODUCT_CURRENCY — ISO currency code (default sek)
	cfg.ProductCurrency = strings.ToLower(getEnvDefault("HB_PRODUCT_CURRENCY", "sek"))

	// --- External credentials ---

	// HB_STRIPE_PUBLISHABLE_KEY — optional, presence only
	cfg.StripePublishableKey = getEnvDefault("HB_STRIPE_PUBLISHABLE_KEY", "")

	// HB_OPENAI_API_KEY — optional, presence only
	cfg.OpenAIAPIKey = getEnvDefault("HB_OPENAI_API_KEY", "")

	// --- Developer tooling ---

	// HB_TEST_PAGES_ENABLED — probe pages toggle (default false)
	cfg.TestPagesEnabled = getEnvDefault("HB_TEST_PAGES_ENABLED", "false") == "true"

	// --- Monitoring ---

	// HB_DEPHEALTH_CHECK_INTERVAL — dependency check interval (default 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("HB_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// HB_DEPHEALTH_GROUP — metric group (default portal)
	cfg.DephealthGroup = getEnvDefault("HB_DEPHEALTH_GROUP", "portal")

	// --- Graceful shutdown ---

	// HB_SHUTDOWN_TIMEOUT — graceful shutdown timeout (default 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("HB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("HB_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Warnings returns startup warnings for absent optional settings.
// Missing blob store settings disable logo upload but never fail startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.BlobStoreURL == "" {
		warnings = append(warnings, "HB_BLOBSTORE_URL is not set — logo upload and the storage probe are disabled")
	} else if c.BlobStoreKey == "" {
		warnings = append(warnings, "HB_BLOBSTORE_KEY is not set — blob store requests will be unauthenticated")
	}
	if c.StripePublishableKey == "" {
		warnings = append(warnings, "HB_STRIPE_PUBLISHABLE_KEY is not set — payment integration unavailable")
	}
	return warnings
}

// BlobStoreConfigured reports whether the blob store endpoint is set.
func (c *Config) BlobStoreConfigured() bool {
	return c.BlobStoreURL != ""
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL returns the PostgreSQL connection URL (used for metric labels).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger configures the global slog logger from the configuration.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Helpers ---

// getEnvRequired returns the value of an environment variable or an error
// when it is unset.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: required environment variable is not set", key)
	}
	return val, nil
}

// getEnvDefault returns the value of an environment variable or a default.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %q", val)
	}
	return n, nil
}

// getEnvDuration returns a time.Duration environment variable or a default.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid duration: %q (use Go syntax: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel converts a log level string to slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid level %q, allowed: debug, info, warn, error", level)
	}
}
