package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultOverridesURL is the CSV export of the shared airport-name sheet.
const DefaultOverridesURL = "https://docs.google.com/spreadsheets/d/1pXSvaJT76g-ScBu7GxiduHM54UM8zjda3gHJYdjh_Is/export?format=csv"

// Override sources.
const (
	OverridesSourceHTTP     = "http"
	OverridesSourcePostgres = "postgres"
	OverridesSourceNone     = "none"
)

// Config holds all application configuration
type Config struct {
	Port            string
	HTTPBindAddr    string
	Environment     string
	LoggingConfig   LoggingConfig
	ItineraryConfig ItineraryConfig
	OverridesConfig OverridesConfig
	PostgresConfig  PostgresConfig
	RedisConfig     RedisConfig
	AdminAuthConfig AdminAuthConfig
	AirlinesFile    string
	MetricsEnabled  bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ItineraryConfig holds rendering defaults; requests may override them.
type ItineraryConfig struct {
	Locale string
	// DefaultYear is applied to date tokens; zero means the current year.
	DefaultYear int
	ASCII       bool
}

// Year returns DefaultYear, or the current year when it is unset.
func (c ItineraryConfig) Year(now time.Time) int {
	if c.DefaultYear > 0 {
		return c.DefaultYear
	}
	return now.Year()
}

// OverridesConfig holds airport display-name override settings
type OverridesConfig struct {
	Source      string
	URL         string
	CachePath   string
	MaxAge      time.Duration
	Timeout     time.Duration
	RefreshCron string
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// AdminAuthConfig holds admin authentication configuration
type AdminAuthConfig struct {
	Enabled  bool
	Username string
	Password string
	Token    string // Alternative: Bearer token auth
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	defaultYear, err := strconv.Atoi(getEnv("ITINERARY_DEFAULT_YEAR", "0"))
	if err != nil || defaultYear < 0 {
		return nil, fmt.Errorf("invalid ITINERARY_DEFAULT_YEAR %q", os.Getenv("ITINERARY_DEFAULT_YEAR"))
	}
	ascii, _ := strconv.ParseBool(getEnv("ITINERARY_ASCII", "false"))

	maxAge, err := time.ParseDuration(getEnv("OVERRIDES_MAX_AGE", "24h"))
	if err != nil {
		maxAge = 24 * time.Hour
	}
	timeout, err := time.ParseDuration(getEnv("OVERRIDES_TIMEOUT", "4s"))
	if err != nil {
		timeout = 4 * time.Second
	}
	source := strings.ToLower(getEnv("OVERRIDES_SOURCE", OverridesSourceHTTP))
	switch source {
	case OverridesSourceHTTP, OverridesSourcePostgres, OverridesSourceNone:
	default:
		return nil, fmt.Errorf("invalid OVERRIDES_SOURCE %q", source)
	}

	redisEnabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	metricsEnabled, _ := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))

	// Admin authentication config
	adminAuthEnabled, _ := strconv.ParseBool(getEnv("ADMIN_AUTH_ENABLED", "false"))

	return &Config{
		Port:         getEnv("PORT", "8080"),
		HTTPBindAddr: getEnv("HTTP_BIND_ADDR", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		ItineraryConfig: ItineraryConfig{
			Locale:      getEnv("ITINERARY_LOCALE", "ru"),
			DefaultYear: defaultYear,
			ASCII:       ascii,
		},
		OverridesConfig: OverridesConfig{
			Source:      source,
			URL:         getEnv("OVERRIDES_URL", DefaultOverridesURL),
			CachePath:   getEnv("OVERRIDES_CACHE_PATH", "data/ru_overrides.csv"),
			MaxAge:      maxAge,
			Timeout:     timeout,
			RefreshCron: getEnv("OVERRIDES_REFRESH_CRON", "@every 1h"),
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "aviator"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "aviator"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Enabled:   redisEnabled,
			Host:      getEnv("REDIS_HOST", "redis"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "aviator"),
		},
		AdminAuthConfig: AdminAuthConfig{
			Enabled:  adminAuthEnabled,
			Username: getEnv("ADMIN_AUTH_USERNAME", ""),
			Password: getEnv("ADMIN_AUTH_PASSWORD", ""),
			Token:    getEnv("ADMIN_AUTH_TOKEN", ""),
		},
		AirlinesFile:   getEnv("AIRLINES_FILE", ""),
		MetricsEnabled: metricsEnabled,
	}, nil
}

// LoadTestConfig loads test configuration
func LoadTestConfig() *Config {
	return &Config{
		Port:          "0",
		Environment:   "test",
		LoggingConfig: LoggingConfig{Level: "error", Format: "text"},
		ItineraryConfig: ItineraryConfig{
			Locale:      "ru",
			DefaultYear: 2026,
		},
		OverridesConfig: OverridesConfig{
			Source:      OverridesSourceNone,
			MaxAge:      24 * time.Hour,
			Timeout:     time.Second,
			RefreshCron: "@every 1h",
		},
		PostgresConfig: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "aviator"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME_TEST", "aviator_test"), // Use separate test DB name env var
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			KeyPrefix: "aviator_test",
		},
	}
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	cfg := LoadTestConfig()
	cfg.MetricsEnabled = false
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value) // Trim whitespace before returning
}
