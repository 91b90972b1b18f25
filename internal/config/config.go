package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	APIBaseURL    string
	Environment   string
	FeatureBypass bool
	Origin        string
	StoreKind     string
	SQLitePath    string
	RedisURL      string
	DatabaseURL   string
	LogLevel      string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:  strings.TrimRight(fallback(os.Getenv("VAULT_API_BASE_URL"), "http://localhost:8000"), "/"),
		Environment: strings.ToLower(fallback(os.Getenv("VAULT_ENV"), EnvProduction)),
		Origin:      strings.TrimSpace(os.Getenv("VAULT_ORIGIN")),
		StoreKind:   strings.ToLower(fallback(os.Getenv("VAULT_STORE"), StoreSQLite)),
		SQLitePath:  strings.TrimSpace(os.Getenv("VAULT_SQLITE_PATH")),
		RedisURL:    strings.TrimSpace(os.Getenv("VAULT_REDIS_URL")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:    strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "warn")),
	}

	if raw := strings.TrimSpace(os.Getenv("VAULT_FEATURE_BYPASS")); raw != "" {
		bypass, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("VAULT_FEATURE_BYPASS: %w", err)
		}
		cfg.FeatureBypass = bypass
	}

	base, err := url.Parse(cfg.APIBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return Config{}, fmt.Errorf("VAULT_API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	if cfg.Origin == "" {
		cfg.Origin = base.Host
	}

	switch cfg.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		return Config{}, fmt.Errorf("VAULT_ENV must be %q or %q", EnvProduction, EnvDevelopment)
	}
	if cfg.FeatureBypass && cfg.Environment != EnvDevelopment {
		return Config{}, errors.New("VAULT_FEATURE_BYPASS is only allowed when VAULT_ENV=development")
	}

	switch cfg.StoreKind {
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return Config{}, fmt.Errorf("find home directory: %w", err)
			}
			cfg.SQLitePath = filepath.Join(home, ".vault", "session.db")
		}
	case StoreRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("VAULT_REDIS_URL is required for the redis store")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown VAULT_STORE %q", cfg.StoreKind)
	}

	return cfg, nil
}

// Development reports whether the development escape hatches may be used.
func (c Config) Development() bool {
	return c.Environment == EnvDevelopment
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
