package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_PORT", "LOG_LEVEL", "STORAGE_BACKENDS", "DATA_DIR", "STORAGE_FORMAT",
	"DATABASE_URL", "R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY",
	"R2_BUCKET_NAME", "R2_PREFIX", "CORS_ALLOWED_ORIGINS", "AUTOSAVE_ON_SHUTDOWN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{BackendFile}, cfg.StorageBackends)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "json", cfg.StorageFormat)
	assert.Equal(t, "leagues/", cfg.R2Prefix)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AutosaveOnShutdown)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORAGE_BACKENDS", "postgres, file ,r2")
	t.Setenv("STORAGE_FORMAT", "YAML")
	t.Setenv("DATABASE_URL", "postgres://localhost/league?sslmode=disable")
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "bucket")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("AUTOSAVE_ON_SHUTDOWN", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{BackendPostgres, BackendFile, BackendR2}, cfg.StorageBackends)
	assert.Equal(t, "yaml", cfg.StorageFormat)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.AutosaveOnShutdown)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port not a number", map[string]string{"SERVER_PORT": "http"}, "invalid SERVER_PORT"},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "between 1 and 65535"},
		{"log level", map[string]string{"LOG_LEVEL": "loud"}, "invalid LOG_LEVEL"},
		{"format", map[string]string{"STORAGE_FORMAT": "xml"}, "json or yaml"},
		{"autosave", map[string]string{"AUTOSAVE_ON_SHUTDOWN": "sometimes"}, "AUTOSAVE_ON_SHUTDOWN"},
		{"unknown backend", map[string]string{"STORAGE_BACKENDS": "file,redis"}, `unknown storage backend "redis"`},
		{"duplicate backend", map[string]string{"STORAGE_BACKENDS": "file,file"}, "twice"},
		{"postgres without dsn", map[string]string{"STORAGE_BACKENDS": "postgres"}, "DATABASE_URL"},
		{"r2 without credentials", map[string]string{"STORAGE_BACKENDS": "r2", "R2_BUCKET_NAME": "b"},
			"r2 storage requires R2_ACCESS_KEY_ID, R2_ACCOUNT_ID, R2_SECRET_ACCESS_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
