package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string
	DBMaxConns   int32
	LogFormat    string
	LogLevel     string

	UpcomingMaxItems    int
	UpcomingExpiryGrace time.Duration
	UpcomingCacheTTL    time.Duration

	StoragePath         string
	MediaMaxUploadBytes int64
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	maxConns, err := getEnvAsInt("DB_MAX_CONNS", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	cfg.DBMaxConns = int32(maxConns)

	// Logging: console for humans, json in production
	defaultFormat := "console"
	if cfg.IsProduction {
		defaultFormat = "json"
	}
	cfg.LogFormat = getEnv("LOG_FORMAT", defaultFormat)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Upcoming list capacity (default: 20)
	cfg.UpcomingMaxItems, err = getEnvAsInt("UPCOMING_MAX_ITEMS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid UPCOMING_MAX_ITEMS: %w", err)
	}
	if cfg.UpcomingMaxItems <= 0 {
		return nil, fmt.Errorf("UPCOMING_MAX_ITEMS must be positive, got %d", cfg.UpcomingMaxItems)
	}

	// How long after release an entry survives before the sweep removes it.
	grace, err := time.ParseDuration(getEnv("UPCOMING_EXPIRY_GRACE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPCOMING_EXPIRY_GRACE: %w", err)
	}
	cfg.UpcomingExpiryGrace = grace

	// How long a cached list may be served (default: 1m)
	cacheTTL, err := time.ParseDuration(getEnv("UPCOMING_CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPCOMING_CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("UPCOMING_CACHE_TTL must be positive, got %s", cacheTTL)
	}
	cfg.UpcomingCacheTTL = cacheTTL

	// Media storage (default: ./data, 5 MiB uploads)
	cfg.StoragePath = getEnv("STORAGE_PATH", "./data")
	maxUpload, err := getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 5<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_MAX_UPLOAD_BYTES: %w", err)
	}
	cfg.MediaMaxUploadBytes = int64(maxUpload)

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
