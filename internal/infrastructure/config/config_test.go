package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Run in an empty directory so no config.toml is picked up
	t.Chdir(t.TempDir())

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "swissbill", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.True(t, decimal.RequireFromString("8.1").Equal(cfg.Billing.StandardTaxRate))
		assert.Equal(t, "CHF", cfg.Billing.Currency)
		assert.Equal(t, "CH", cfg.Billing.DefaultCountry)
		assert.Equal(t, "it", cfg.Billing.DefaultLanguage)
		assert.Equal(t, 3, cfg.Billing.NumberMaxRetries)
		assert.Equal(t, "memory", cfg.Billing.NumberSequence)
		assert.Equal(t, 5*time.Second, cfg.Printing.LogoTimeout)
		assert.Equal(t, int64(2<<20), cfg.Printing.LogoMaxBytes)
		assert.Equal(t, 20, cfg.Printing.MarginLeft)
		assert.Equal(t, "swissbill", cfg.Printing.Creator)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, "none", cfg.Storage.Backend)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.False(t, cfg.Telemetry.Enabled)
	})

	t.Run("loads values from environment variables with SWB prefix", func(t *testing.T) {
		t.Setenv("SWB_APP_PORT", "9090")
		t.Setenv("SWB_BILLING_STANDARD_TAX_RATE", "7.7")
		t.Setenv("SWB_BILLING_CURRENCY", "eur")
		t.Setenv("SWB_BILLING_DEFAULT_COUNTRY", "li")
		t.Setenv("SWB_BILLING_DEFAULT_LANGUAGE", "DE")
		t.Setenv("SWB_BILLING_NUMBER_SEQUENCE", "redis")
		t.Setenv("SWB_REDIS_PORT", "6380")
		t.Setenv("SWB_HTTP_RATE_LIMIT", "120")
		t.Setenv("SWB_TELEMETRY_SAMPLING_RATIO", "0.25")
		t.Setenv("SWB_TELEMETRY_EXPORT_LOGS", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.True(t, decimal.RequireFromString("7.7").Equal(cfg.Billing.StandardTaxRate))
		assert.Equal(t, "EUR", cfg.Billing.Currency)
		assert.Equal(t, "LI", cfg.Billing.DefaultCountry)
		assert.Equal(t, "de", cfg.Billing.DefaultLanguage)
		assert.Equal(t, "redis", cfg.Billing.NumberSequence)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, 120, cfg.HTTP.RateLimit)
		assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
		assert.InDelta(t, 0.25, cfg.Telemetry.SamplingRatio, 1e-9)
		assert.True(t, cfg.Telemetry.ExportLogs)
		assert.False(t, cfg.Telemetry.ExportTraces)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		tests := []struct {
			key, value, want string
		}{
			{"SWB_BILLING_STANDARD_TAX_RATE", "abc", "not a number"},
			{"SWB_BILLING_STANDARD_TAX_RATE", "120", "between 0 and 100"},
			{"SWB_BILLING_CURRENCY", "USD", "CHF or EUR"},
			{"SWB_BILLING_DEFAULT_COUNTRY", "CHE", "two-letter"},
			{"SWB_BILLING_DEFAULT_LANGUAGE", "ja", "default_language"},
			{"SWB_BILLING_NUMBER_SEQUENCE", "etcd", "number_sequence"},
			{"SWB_PRINTING_MARGIN_TOP", "80", "margin_top"},
			{"SWB_STORAGE_BACKEND", "ftp", "storage.backend"},
			{"SWB_STORAGE_BACKEND", "s3", "storage.bucket"},
			{"SWB_HTTP_RATE_LIMIT", "-1", "cannot be negative"},
			{"SWB_TELEMETRY_SAMPLING_RATIO", "1.5", "sampling_ratio"},
		}
		for _, tt := range tests {
			t.Run(tt.key+"="+tt.value, func(t *testing.T) {
				t.Setenv(tt.key, tt.value)
				_, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SWB_APP_ENV", "production")

	t.Run("requires the redis sequence", func(t *testing.T) {
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis in production")
	})

	t.Run("rejects wildcard CORS", func(t *testing.T) {
		t.Setenv("SWB_BILLING_NUMBER_SEQUENCE", "redis")
		t.Setenv("SWB_HTTP_CORS_ALLOW_ORIGINS", "*")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		t.Setenv("SWB_BILLING_NUMBER_SEQUENCE", "redis")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swissbill.toml")
	content := `
[app]
name = "acme-billing"

[billing]
standard_tax_rate = "2.6"
default_language = "fr"

[storage]
backend = "s3"
bucket = "documents"
use_path_style = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "acme-billing", cfg.App.Name)
	assert.True(t, decimal.RequireFromString("2.6").Equal(cfg.Billing.StandardTaxRate))
	assert.Equal(t, "fr", cfg.Billing.DefaultLanguage)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "documents", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, "acme-billing", cfg.Telemetry.ServiceName)

	_, err = LoadFrom(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
