package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Billing   BillingConfig
	Printing  PrintingConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	RequestTimeout   time.Duration // per-request deadline, 0 disables
	RateLimit        int           // requests per window and account, 0 disables
	RateLimitWindow  time.Duration
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// BillingConfig holds document computation settings
type BillingConfig struct {
	StandardTaxRate  decimal.Decimal // percent applied when a line omits its rate
	Currency         string          // CHF or EUR
	DefaultCountry   string          // ISO code used when an address country is unknown
	DefaultLanguage  string          // slip language when the locale matches none
	NumberMaxRetries int
	NumberSequence   string // redis, memory, random
	NumberReserveTTL time.Duration
}

// PrintingConfig holds PDF rendering settings
type PrintingConfig struct {
	LogoTimeout  time.Duration
	LogoMaxBytes int64
	MarginTop    int // mm
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	Creator      string // PDF creator metadata
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds archive settings for rendered PDFs
type StorageConfig struct {
	Backend           string // none, memory, filesystem, s3
	BasePath          string // filesystem root
	BaseURL           string // filesystem URL prefix
	Bucket            string
	Region            string
	Endpoint          string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool   // Whether to export metrics
	CollectorEndpoint string // OTEL Collector endpoint (e.g., "localhost:4317")
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	MetricsInterval   time.Duration
	ExportTraces      bool    // send spans to the collector, not only trace ids to logs
	SamplingRatio     float64 // 0 or 1 samples every request
	ExportLogs        bool    // copy log entries to the collector in addition to log.output
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SWB_ prefix (e.g., SWB_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path
// searches the default locations.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/app")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SWB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	taxRate, err := parseRate(v.GetString("billing.standard_tax_rate"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			RequestTimeout:   v.GetDuration("http.request_timeout"),
			RateLimit:        v.GetInt("http.rate_limit"),
			RateLimitWindow:  v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Billing: BillingConfig{
			StandardTaxRate:  taxRate,
			Currency:         strings.ToUpper(v.GetString("billing.currency")),
			DefaultCountry:   strings.ToUpper(v.GetString("billing.default_country")),
			DefaultLanguage:  strings.ToLower(v.GetString("billing.default_language")),
			NumberMaxRetries: v.GetInt("billing.number_max_retries"),
			NumberSequence:   strings.ToLower(v.GetString("billing.number_sequence")),
			NumberReserveTTL: v.GetDuration("billing.number_reserve_ttl"),
		},
		Printing: PrintingConfig{
			LogoTimeout:  v.GetDuration("printing.logo_timeout"),
			LogoMaxBytes: v.GetInt64("printing.logo_max_bytes"),
			MarginTop:    v.GetInt("printing.margin_top"),
			MarginRight:  v.GetInt("printing.margin_right"),
			MarginBottom: v.GetInt("printing.margin_bottom"),
			MarginLeft:   v.GetInt("printing.margin_left"),
			Creator:      v.GetString("printing.creator"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Storage: StorageConfig{
			Backend:           strings.ToLower(v.GetString("storage.backend")),
			BasePath:          v.GetString("storage.base_path"),
			BaseURL:           v.GetString("storage.base_url"),
			Bucket:            v.GetString("storage.bucket"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			ExportTraces:      v.GetBool("telemetry.export_traces"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ExportLogs:        v.GetBool("telemetry.export_logs"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("billing.standard_tax_rate is not a number: %q", s)
	}
	return d, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "swissbill"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// NOTE: CORS origins have no "*" fallback. An empty list allows no
	// cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Account-ID"}
	}
	if cfg.Billing.StandardTaxRate.IsZero() {
		cfg.Billing.StandardTaxRate = decimal.RequireFromString("8.1")
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = "CHF"
	}
	if cfg.Billing.DefaultCountry == "" {
		cfg.Billing.DefaultCountry = "CH"
	}
	if cfg.Billing.DefaultLanguage == "" {
		cfg.Billing.DefaultLanguage = "it"
	}
	if cfg.Billing.NumberMaxRetries == 0 {
		cfg.Billing.NumberMaxRetries = 3
	}
	if cfg.Billing.NumberSequence == "" {
		cfg.Billing.NumberSequence = "memory"
	}
	if cfg.Printing.LogoTimeout == 0 {
		cfg.Printing.LogoTimeout = 5 * time.Second
	}
	if cfg.Printing.LogoMaxBytes == 0 {
		cfg.Printing.LogoMaxBytes = 2 << 20
	}
	if cfg.Printing.MarginTop == 0 {
		cfg.Printing.MarginTop = 15
	}
	if cfg.Printing.MarginRight == 0 {
		cfg.Printing.MarginRight = 15
	}
	if cfg.Printing.MarginBottom == 0 {
		cfg.Printing.MarginBottom = 20
	}
	if cfg.Printing.MarginLeft == 0 {
		cfg.Printing.MarginLeft = 20
	}
	if cfg.Printing.Creator == "" {
		cfg.Printing.Creator = cfg.App.Name
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "none"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./data/documents"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Billing.StandardTaxRate.IsNegative() || c.Billing.StandardTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("billing.standard_tax_rate must be between 0 and 100, got %s", c.Billing.StandardTaxRate)
	}
	switch c.Billing.Currency {
	case "CHF", "EUR":
	default:
		return fmt.Errorf("billing.currency must be CHF or EUR, got %q", c.Billing.Currency)
	}
	if len(c.Billing.DefaultCountry) != 2 {
		return fmt.Errorf("billing.default_country must be a two-letter code, got %q", c.Billing.DefaultCountry)
	}
	switch c.Billing.DefaultLanguage {
	case "de", "en", "it", "fr":
	default:
		return fmt.Errorf("billing.default_language must be one of de, en, it, fr, got %q", c.Billing.DefaultLanguage)
	}
	if c.HTTP.RequestTimeout < 0 || c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.request_timeout and http.rate_limit cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %v", c.Telemetry.SamplingRatio)
	}
	if c.Billing.NumberMaxRetries < 0 {
		return fmt.Errorf("billing.number_max_retries cannot be negative")
	}
	switch c.Billing.NumberSequence {
	case "redis", "memory", "random":
	default:
		return fmt.Errorf("billing.number_sequence must be redis, memory or random, got %q", c.Billing.NumberSequence)
	}
	for name, m := range map[string]int{
		"printing.margin_top":    c.Printing.MarginTop,
		"printing.margin_right":  c.Printing.MarginRight,
		"printing.margin_bottom": c.Printing.MarginBottom,
		"printing.margin_left":   c.Printing.MarginLeft,
	} {
		if m < 0 || m > 60 {
			return fmt.Errorf("%s must be between 0 and 60 mm, got %d", name, m)
		}
	}

	switch c.Storage.Backend {
	case "none", "memory", "filesystem":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be none, memory, filesystem or s3, got %q", c.Storage.Backend)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Billing.NumberSequence != "redis" {
			return fmt.Errorf("billing.number_sequence must be redis in production so numbers stay unique across instances")
		}
	}

	return nil
}
