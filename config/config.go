package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Engine   EngineConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig validates platform-issued tokens; the auth service owns issuance.
type JWTConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

// EngineConfig tunes the notification engine itself.
type EngineConfig struct {
	// DefaultSweepAge is how long a notification may sit unacknowledged
	// before a reminder sweep escalates it, when the caller gives no cutoff.
	DefaultSweepAge time.Duration
	// RateLimitPerMinute caps requests per client IP.
	RateLimitPerMinute int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "shiftwatch:shiftwatch@tcp(localhost:3306)/shiftwatch?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer: getEnv("JWT_ISSUER", "shiftwatch"),
			Expiry: 15 * time.Minute,
		},
		Engine: EngineConfig{
			DefaultSweepAge:    time.Duration(getEnvInt("SWEEP_AGE_MINUTES", 60)) * time.Minute,
			RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
