package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment       string
	HTTPPort          string
	DatabasePath      string
	GeoDatabasePath   string // MaxMind City mmdb consumed by the lookup resolver
	PolicyFile        string // optional JSON policy bootstrapped into the database on startup
	JWTSecret         string
	LogDir            string
	DecisionRetention int // days of rejection audit rows kept by the nightly purge
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:       getEnv("GEOFENCE_ENV", "development"),
		HTTPPort:          getEnv("GEOFENCE_HTTP_PORT", "8080"),
		DatabasePath:      getEnv("GEOFENCE_DB_PATH", filepath.Join("data", "geofence.db")),
		GeoDatabasePath:   getEnv("GEOFENCE_MMDB_PATH", filepath.Join("data", "GeoLite2-City.mmdb")),
		PolicyFile:        getEnv("GEOFENCE_POLICY_FILE", ""),
		JWTSecret:         getEnv("GEOFENCE_JWT_SECRET", ""),
		LogDir:            getEnv("GEOFENCE_LOG_DIR", filepath.Join("data", "logs")),
		DecisionRetention: getEnvInt("GEOFENCE_DECISION_RETENTION_DAYS", 30),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening enabled.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}

	return fallback
}
