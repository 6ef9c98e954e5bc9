package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	devJWTSecret          = "fallback-secret-key-for-dev-only"
	devTokenEncryptionKey = "fallback-token-key-for-dev-only"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string // "sqlite" or "postgres"
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT issued by the gateway to the mobile client
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Finance backend
	UpstreamAPIURL  string
	UpstreamTimeout time.Duration

	// Sessions
	SessionRefreshSchedule string
	TokenEncryptionKey     string

	// Admin endpoints are disabled when empty
	AdminAPIKey string

	// Presentation
	CurrencySymbol string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:     getEnv("DB_PATH", "merlin.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "merlin"),
		DBPassword: getEnv("DB_PASSWORD", "merlin"),
		DBName:     getEnv("DB_NAME", "merlin"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", devJWTSecret),

		// Finance backend
		UpstreamAPIURL: strings.TrimRight(os.Getenv("UPSTREAM_API_URL"), "/"),

		// Sessions
		SessionRefreshSchedule: getEnv("SESSION_REFRESH_SCHEDULE", "@every 1m"),
		TokenEncryptionKey:     getEnv("TOKEN_ENCRYPTION_KEY", devTokenEncryptionKey),
		AdminAPIKey:            os.Getenv("ADMIN_API_KEY"),

		// Presentation
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "£"),
	}

	if config.UpstreamAPIURL == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL is required")
	}

	// The development fallbacks are public; production must set its own.
	if config.IsProduction() {
		if os.Getenv("JWT_SECRET") == "" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		if os.Getenv("TOKEN_ENCRYPTION_KEY") == "" {
			return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY is required in production")
		}
	}

	switch config.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be sqlite or postgres", config.DBDriver)
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	timeout, err := parseTimeout(os.Getenv("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	config.UpstreamTimeout = timeout

	if _, err := cron.ParseStandard(config.SessionRefreshSchedule); err != nil {
		return nil, fmt.Errorf("invalid SESSION_REFRESH_SCHEDULE %q: %w", config.SessionRefreshSchedule, err)
	}

	return config, nil
}

// IsProduction reports whether the gateway runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %v", d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
