package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the process-wide settings. Loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port      string
	SecretKey string
	Debug     bool

	// Remote sleep-data service.
	SleepAPIBaseURL string
	SleepAPITimeout time.Duration

	ItemsPerPage         int
	DefaultDateRangeDays int

	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from the environment, applying defaults for
// anything unset or unparseable.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.SecretKey = getEnv("SECRET_KEY", "dev-secret-key-change-in-production")
	cfg.Debug = getEnvBool("DEBUG", false)

	cfg.SleepAPIBaseURL = getEnv("SLEEP_API_BASE_URL", "http://localhost:8001/api")
	cfg.SleepAPITimeout = time.Duration(getEnvInt("SLEEP_API_TIMEOUT", 10)) * time.Second

	cfg.ItemsPerPage = getEnvInt("ITEMS_PER_PAGE", 10)
	cfg.DefaultDateRangeDays = getEnvInt("DEFAULT_DATE_RANGE_DAYS", 7)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
