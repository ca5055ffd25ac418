package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables (godotenv loads .env in development).
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Enrichment EnrichmentConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// EnrichmentConfig configures the image-enrichment gateway.
// Timeout bounds the whole call; item creation never waits longer.
type EnrichmentConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "marketplace-backend"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnvInt("PG_PORT", 5432),
			User:     getEnv("PG_USERNAME", "postgres"),
			Password: getEnv("PG_PASSWORD", "postgres"),
			Database: getEnv("PG_DBNAME", "marketplace"),
			MaxConns: int32(getEnvInt("PG_MAX_CONNS", 20)),
			MinConns: int32(getEnvInt("PG_MIN_CONNS", 2)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRY_MINUTES", 60*24)) * time.Minute,
			RefreshTokenExpiry: time.Duration(getEnvInt("JWT_REFRESH_EXPIRY_HOURS", 72)) * time.Hour,
		},
		Enrichment: EnrichmentConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			Timeout: time.Duration(getEnvInt("ENRICHMENT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
	}

	// Enrichment is best-effort: without a key the port stays disabled
	// and items are simply created without a generated image.
	cfg.Enrichment.Enabled = cfg.Enrichment.APIKey != ""

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
