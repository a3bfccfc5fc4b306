package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// RedisConfig holds Redis connection configuration. An empty URL runs the
// service without the view cache and the ledger stream.
type RedisConfig struct {
	URL        string
	Stream     string
	SummaryTTL time.Duration
	LiveTTL    time.Duration
}

// DatabaseConfig holds PostgreSQL configuration. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN string
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8086"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			Stream:     getEnv("LEDGER_STREAM", "games.ledger.basketball"),
			SummaryTTL: time.Duration(getEnvInt("SUMMARY_TTL_MINUTES", 360)) * time.Minute,
			LiveTTL:    time.Duration(getEnvInt("LIVE_TTL_MINUTES", 120)) * time.Minute,
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets a positive integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
