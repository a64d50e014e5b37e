package config

import (
	"log/slog"
	"testing"
	"time"
)

// setEnvs sets environment variables for the duration of the test.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs returns the minimal set of required variables.
func minimalEnvs() map[string]string {
	return map[string]string{
		"HB_DB_HOST":     "localhost",
		"HB_DB_NAME":     "portal",
		"HB_DB_USER":     "portal",
		"HB_DB_PASSWORD": "secret",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// Defaults
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, want 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, want disable", cfg.DBSSLMode)
	}
	if cfg.BlobStoreBucket != "handbooks" {
		t.Errorf("BlobStoreBucket = %q, want handbooks", cfg.BlobStoreBucket)
	}
	if cfg.ProductName != "Föreningshandboken" {
		t.Errorf("ProductName = %q, want Föreningshandboken", cfg.ProductName)
	}
	if cfg.ProductPrice != 299 {
		t.Errorf("ProductPrice = %d, want 299", cfg.ProductPrice)
	}
	if cfg.ProductCurrency != "sek" {
		t.Errorf("ProductCurrency = %q, want sek", cfg.ProductCurrency)
	}
	if cfg.TestPagesEnabled {
		t.Error("TestPagesEnabled = true, want false by default")
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, want 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	envs := minimalEnvs()
	delete(envs, "HB_DB_HOST")
	setEnvs(t, envs)
	t.Setenv("HB_DB_HOST", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without HB_DB_HOST should fail")
	}
}

func TestLoad_BlobStoreOptional(t *testing.T) {
	// Absent blob store settings must not fail startup; they only warn.
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.BlobStoreConfigured() {
		t.Error("BlobStoreConfigured() = true without HB_BLOBSTORE_URL")
	}

	warned := false
	for _, w := range cfg.Warnings() {
		if w != "" {
			warned = true
		}
	}
	if !warned {
		t.Error("Warnings() is empty, want at least the blob store warning")
	}
}

func TestLoad_BlobStoreTrailingSlash(t *testing.T) {
	setEnvs(t, minimalEnvs())
	t.Setenv("HB_BLOBSTORE_URL", "https://blob.example.com/")
	t.Setenv("HB_BLOBSTORE_KEY", "anon-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.BlobStoreURL != "https://blob.example.com" {
		t.Errorf("BlobStoreURL = %q, want trailing slash stripped", cfg.BlobStoreURL)
	}
	if !cfg.BlobStoreConfigured() {
		t.Error("BlobStoreConfigured() = false with HB_BLOBSTORE_URL set")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setEnvs(t, minimalEnvs())
	t.Setenv("HB_PORT", "9000")
	t.Setenv("HB_LOG_LEVEL", "debug")
	t.Setenv("HB_LOG_FORMAT", "text")
	t.Setenv("HB_PRODUCT_PRICE", "499")
	t.Setenv("HB_PRODUCT_CURRENCY", "EUR")
	t.Setenv("HB_TEST_PAGES_ENABLED", "true")
	t.Setenv("HB_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want Debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.ProductPrice != 499 {
		t.Errorf("ProductPrice = %d, want 499", cfg.ProductPrice)
	}
	if cfg.ProductCurrency != "eur" {
		t.Errorf("ProductCurrency = %q, want eur (lowercased)", cfg.ProductCurrency)
	}
	if !cfg.TestPagesEnabled {
		t.Error("TestPagesEnabled = false, want true")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "HB_PORT", "not-a-number"},
		{"port out of range", "HB_PORT", "70000"},
		{"bad log level", "HB_LOG_LEVEL", "verbose"},
		{"bad log format", "HB_LOG_FORMAT", "xml"},
		{"bad ssl mode", "HB_DB_SSL_MODE", "maybe"},
		{"negative price", "HB_PRODUCT_PRICE", "-1"},
		{"bad duration", "HB_SHUTDOWN_TIMEOUT", "5 seconds"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setEnvs(t, minimalEnvs())
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tc.key, tc.value)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	want := "host=localhost port=5432 dbname=portal user=portal password=secret sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, want %q", got, want)
	}
}
