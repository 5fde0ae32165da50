// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the database and export artifacts (always absolute)
	Port     int
	DevMode  bool
	LogLevel string

	// External API credentials. Both optional: without a NewsAPI key the
	// news gateway serves placeholder headlines, without an Anthropic key
	// the sentiment classifier falls back to the keyword heuristic.
	NewsAPIKey      string
	AnthropicAPIKey string
	ClaudeModel     string

	// Pacing between successive calls per external provider. The sentiment
	// delay is deliberately larger than the market data delay.
	MarketDataDelay time.Duration
	SentimentDelay  time.Duration

	// StageWorkers bounds per-stage fan-out across tickers.
	StageWorkers int

	// ScreenerCron is a cron expression for scheduled runs.
	// Empty disables the scheduler.
	ScreenerCron string

	// PriceCacheTTL controls how long cached daily close series stay fresh.
	PriceCacheTTL time.Duration

	// RunRetention controls how long finished runs are kept before the
	// maintenance job prunes them.
	RunRetention time.Duration

	Export   ExportConfig
	Screener ScreenerDefaults
}

// ExportConfig holds optional S3-compatible upload settings for export
// artifacts. Uploads are enabled iff Bucket is non-empty.
type ExportConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // set for S3-compatible stores (R2, MinIO); empty for AWS
	AccessKey string
	SecretKey string
}

// Enabled reports whether export uploads are configured.
func (e ExportConfig) Enabled() bool {
	return e.Bucket != ""
}

// ScreenerDefaults holds the default screening criteria. Each run may
// override them via the API; out-of-range values are clamped by the
// screener service.
type ScreenerDefaults struct {
	MarketSelector          string  // SP500 | NASDAQ100 | Both
	MinDropFromATHPct       float64 // clamped to [10, 80]
	MinMarketCapUSD         float64
	MinIVHVRatio            float64 // clamped to [1.0, 3.0]
	SentimentFilter         string  // comma-separated subset of BULLISH, NEUTRAL, BEARISH
	RequireUpcomingEarnings bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Resolve the data directory to an absolute path and ensure it exists.
	dataDir := getEnv("LEAPFINDER_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),

		MarketDataDelay: getEnvAsDuration("MARKET_DATA_DELAY", 100*time.Millisecond),
		SentimentDelay:  getEnvAsDuration("SENTIMENT_DELAY", 1*time.Second),
		StageWorkers:    getEnvAsInt("STAGE_WORKERS", 4),

		ScreenerCron:  getEnv("SCREENER_CRON", ""),
		PriceCacheTTL: getEnvAsDuration("PRICE_CACHE_TTL", 24*time.Hour),
		RunRetention:  getEnvAsDuration("RUN_RETENTION", 90*24*time.Hour),

		Export: ExportConfig{
			Bucket:    getEnv("EXPORT_S3_BUCKET", ""),
			Region:    getEnv("EXPORT_S3_REGION", "auto"),
			Endpoint:  getEnv("EXPORT_S3_ENDPOINT", ""),
			AccessKey: getEnv("EXPORT_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("EXPORT_S3_SECRET_KEY", ""),
		},

		Screener: ScreenerDefaults{
			MarketSelector:          getEnv("SCREENER_MARKET", "SP500"),
			MinDropFromATHPct:       getEnvAsFloat("SCREENER_MIN_DROP_PCT", 40),
			MinMarketCapUSD:         getEnvAsFloat("SCREENER_MIN_MARKET_CAP", 50e9),
			MinIVHVRatio:            getEnvAsFloat("SCREENER_MIN_IV_HV_RATIO", 1.25),
			SentimentFilter:         getEnv("SCREENER_SENTIMENTS", "BULLISH,NEUTRAL"),
			RequireUpcomingEarnings: getEnvAsBool("SCREENER_REQUIRE_EARNINGS", false),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.StageWorkers < 1 {
		return fmt.Errorf("STAGE_WORKERS must be at least 1, got %d", c.StageWorkers)
	}

	// Note: API credentials optional for degraded mode
	// (placeholder headlines + keyword classifier)

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
