package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	// JWTSecret signs session tokens. The server refuses to boot without it.
	JWTSecret string
	// JWTExpiry controls how long issued tokens stay valid.
	JWTExpiry time.Duration

	// NotifyURL is an optional shoutrrr URL for scan alerts. Empty disables them.
	NotifyURL string
}

// ErrMissingJWTSecret is returned by Load when FARWAY_JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("FARWAY_JWT_SECRET is not set")

// Load reads env vars and falls back to defaults so the server can boot with
// minimal configuration. The JWT secret has no default: tokens signed with a
// guessable key are worthless, so Load fails fast instead.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("FARWAY_ENV", "development"),
		HTTPPort:     getEnv("FARWAY_HTTP_PORT", "5000"),
		DatabasePath: getEnv("FARWAY_DB_PATH", filepath.Join("data", "farway.db")),
		JWTSecret:    os.Getenv("FARWAY_JWT_SECRET"),
		JWTExpiry:    getEnvDuration("FARWAY_JWT_EXPIRES_IN", 7*24*time.Hour),
		NotifyURL:    os.Getenv("FARWAY_NOTIFY_URL"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Plain numbers are treated as hours, e.g. FARWAY_JWT_EXPIRES_IN=168
	if h, err := strconv.Atoi(val); err == nil {
		return time.Duration(h) * time.Hour
	}
	return fallback
}
