// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// External alert feeds (best-effort, silent fallback on failure)
	GDELTBaseURL  string
	USGSFeedURL   string
	FeedTimeout   time.Duration
	FeedsDisabled bool // skip all outbound fetches (demo / offline mode)

	// Risk settings
	AlertRadiusKM float64 // default "nearby" radius for risk assessment

	// Payout settings
	DefaultCurrency string
	MinPayout       float64
	MaxPayout       float64

	// Observability
	OTLPEndpoint string // OTLP gRPC endpoint for traces (empty = disabled)
	RateLimitRPM int
}

// Defaults
const (
	DefaultPort         = "8080"
	DefaultEnv          = "development"
	DefaultLogLevel     = "info"
	DefaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/geo/geo"
	DefaultUSGSFeedURL  = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/significant_week.geojson"
	DefaultFeedTimeout  = 10 * time.Second
	DefaultAlertRadius  = 100.0
	DefaultCurrency     = "USD"
	DefaultMinPayout    = 10.0
	DefaultMaxPayout    = 50000.0
	DefaultRateLimit    = 60
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", DefaultPort),
		Env:             getEnv("ENV", DefaultEnv),
		LogLevel:        getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:     os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		GDELTBaseURL:    getEnv("GDELT_BASE_URL", DefaultGDELTBaseURL),
		USGSFeedURL:     getEnv("USGS_FEED_URL", DefaultUSGSFeedURL),
		FeedTimeout:     getEnvDuration("FEED_TIMEOUT", DefaultFeedTimeout),
		FeedsDisabled:   getEnvBool("FEEDS_DISABLED", false),
		AlertRadiusKM:   getEnvFloat("ALERT_RADIUS_KM", DefaultAlertRadius),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", DefaultCurrency),
		MinPayout:       getEnvFloat("MIN_PAYOUT", DefaultMinPayout),
		MaxPayout:       getEnvFloat("MAX_PAYOUT", DefaultMaxPayout),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RateLimitRPM:    int(getEnvInt64("RATE_LIMIT_RPM", DefaultRateLimit)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are coherent
func (c *Config) Validate() error {
	if c.AlertRadiusKM <= 0 {
		return fmt.Errorf("ALERT_RADIUS_KM must be positive, got %v", c.AlertRadiusKM)
	}
	if c.MinPayout <= 0 {
		return fmt.Errorf("MIN_PAYOUT must be positive, got %v", c.MinPayout)
	}
	if c.MaxPayout < c.MinPayout {
		return fmt.Errorf("MAX_PAYOUT (%v) must be >= MIN_PAYOUT (%v)", c.MaxPayout, c.MinPayout)
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive, got %v", c.FeedTimeout)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
