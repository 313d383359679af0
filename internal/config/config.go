package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the storefront service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"storefront-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"STOREFRONT_API_PORT" envDefault:"8380"`
	MetricsPort     int           `env:"METRICS_PORT" envDefault:"9391"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate    bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	// Store defaults, overridable through the settings key/value store
	StoreName          string `env:"STORE_NAME" envDefault:"AI Store"`
	StoreDescription   string `env:"STORE_DESCRIPTION" envDefault:"Your friendly online store in Bangladesh"`
	Currency           string `env:"STORE_CURRENCY" envDefault:"BDT"`
	MaxDiscountPercent int    `env:"STORE_MAX_DISCOUNT_PERCENT" envDefault:"15"`

	// Sales agent / external completion service
	AIAPIKey      string        `env:"AI_API_KEY"`
	AIBaseURL     string        `env:"AI_BASE_URL"`
	AIModel       string        `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	AITemperature float32       `env:"AI_TEMPERATURE" envDefault:"0.7"`
	AIMaxTokens   int           `env:"AI_MAX_TOKENS" envDefault:"1024"`
	AITimeout     time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`
	// Number of trailing history turns forwarded to the completion call.
	AIHistoryWindow int `env:"AI_HISTORY_WINDOW" envDefault:"10"`

	// Support inbox housekeeping
	ChatSweepEnabled       bool          `env:"CHAT_SWEEP_ENABLED" envDefault:"true"`
	ChatSweepIntervalMins  int           `env:"CHAT_SWEEP_INTERVAL_MINUTES" envDefault:"15"`
	ChatAbandonAfter       time.Duration `env:"CHAT_ABANDON_AFTER" envDefault:"72h"`
	ChatSessionIdleCleanup time.Duration `env:"CHAT_SESSION_IDLE_CLEANUP" envDefault:"168h"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.AIAPIKey = strings.TrimSpace(cfg.AIAPIKey)
	cfg.AIBaseURL = strings.TrimSpace(cfg.AIBaseURL)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.MaxDiscountPercent < 0 || cfg.MaxDiscountPercent > 100 {
		return nil, fmt.Errorf("STORE_MAX_DISCOUNT_PERCENT must be 0-100, got %d", cfg.MaxDiscountPercent)
	}
	if cfg.AIHistoryWindow <= 0 {
		cfg.AIHistoryWindow = 10
	}
	if cfg.ChatSweepIntervalMins <= 0 {
		cfg.ChatSweepIntervalMins = 15
	}

	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the Prometheus listen address.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}

// AIConfigured reports whether an external completion credential is present.
// When false the chat endpoint serves deterministic fallback replies only.
func (c *Config) AIConfigured() bool {
	return c.AIAPIKey != ""
}
