package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"VAULT_API_BASE_URL", "VAULT_ENV", "VAULT_FEATURE_BYPASS", "VAULT_ORIGIN",
	"VAULT_STORE", "VAULT_SQLITE_PATH", "VAULT_REDIS_URL", "DATABASE_URL", "LOG_LEVEL",
}

func clearEnv(t *testing.T) string {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.False(t, cfg.FeatureBypass)
	assert.Equal(t, "localhost:8000", cfg.Origin)
	assert.Equal(t, StoreSQLite, cfg.StoreKind)
	assert.Equal(t, filepath.Join(home, ".vault", "session.db"), cfg.SQLitePath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VAULT_API_BASE_URL", "https://api.datavault.io/")
	t.Setenv("VAULT_ORIGIN", "console")
	t.Setenv("VAULT_STORE", "redis")
	t.Setenv("VAULT_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.datavault.io", cfg.APIBaseURL)
	assert.Equal(t, "console", cfg.Origin)
	assert.Equal(t, StoreRedis, cfg.StoreKind)
}

func TestFeatureBypassOnlyInDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("VAULT_FEATURE_BYPASS", "true")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("VAULT_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FeatureBypass)
	assert.True(t, cfg.Development())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"relative base url":   {"VAULT_API_BASE_URL": "localhost"},
		"unknown env":         {"VAULT_ENV": "staging"},
		"bad bypass flag":     {"VAULT_FEATURE_BYPASS": "sometimes"},
		"unknown store":       {"VAULT_STORE": "etcd"},
		"redis without url":   {"VAULT_STORE": "redis"},
		"postgres without db": {"VAULT_STORE": "postgres"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
