package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from environment variables.
// Source URL overrides exist so tests and ops can point adapters at
// stand-in endpoints without code changes.
type Config struct {
	AppEnv   string
	HTTPPort string

	DBDriver string // "sqlite" or "postgres"
	DBPath   string // sqlite file path
	PGHost   string
	PGPort   string
	PGUser   string
	PGPass   string
	PGName   string

	SyncInterval time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBPath:   getEnv("DB_PATH", "lcc.db"),
		PGHost:   os.Getenv("PG_HOST"),
		PGPort:   getEnv("PG_PORT", "5432"),
		PGUser:   os.Getenv("PG_USER"),
		PGPass:   os.Getenv("PG_PASSWORD"),
		PGName:   os.Getenv("PG_DB"),
	}

	interval := getEnv("SYNC_INTERVAL", "24h")
	d, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL %q: %w", interval, err)
	}
	cfg.SyncInterval = d

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPass, c.PGHost, c.PGPort, c.PGName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
