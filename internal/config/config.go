package config

import (
	"os"
	"strings"
	"time"

	"github.com/cineshelf/cineshelf/pkg/database"
)

// Config holds all environment-driven settings for the API process.
type Config struct {
	HTTPPort      string
	Environment   string
	LogLevel      string
	Database      database.Config
	JWTSecret     string
	TokenLifetime time.Duration
	CORSOrigin    string
	RedisAddr     string
	KafkaBrokers  []string
	JaegerURL     string
}

// Load reads configuration from environment variables with local-dev
// defaults.
func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cineshelf"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenLifetime: getDuration("TOKEN_LIFETIME", 7*24*time.Hour),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  getList("KAFKA_BROKERS"),
		JaegerURL:     getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
