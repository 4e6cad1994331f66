package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendR2       = "r2"
)

// Config holds every setting of the server and the CLI.
type Config struct {
	ServerPort int
	LogLevel   slog.Level

	// StorageBackends lists the stores in order. The first one is primary,
	// the rest are mirrors written on every save.
	StorageBackends []string
	DataDir         string
	StorageFormat   string
	DatabaseURL     string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2Prefix          string

	CORSAllowedOrigins []string
	AutosaveOnShutdown bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:       getEnv("DATA_DIR", "data"),
		StorageFormat: strings.ToLower(getEnv("STORAGE_FORMAT", "json")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2Prefix:          getEnv("R2_PREFIX", "leagues/"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	portStr := getEnv("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	autosave, err := strconv.ParseBool(getEnv("AUTOSAVE_ON_SHUTDOWN", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTOSAVE_ON_SHUTDOWN environment variable: %w", err)
	}
	cfg.AutosaveOnShutdown = autosave

	if cfg.StorageFormat != "json" && cfg.StorageFormat != "yaml" {
		return nil, fmt.Errorf("STORAGE_FORMAT must be json or yaml, got %q", cfg.StorageFormat)
	}

	cfg.StorageBackends = splitList(strings.ToLower(getEnv("STORAGE_BACKENDS", BackendFile)))
	if len(cfg.StorageBackends) == 0 {
		return nil, fmt.Errorf("STORAGE_BACKENDS must name at least one backend")
	}
	seen := make(map[string]bool, len(cfg.StorageBackends))
	for _, b := range cfg.StorageBackends {
		if seen[b] {
			return nil, fmt.Errorf("STORAGE_BACKENDS lists %q twice", b)
		}
		seen[b] = true

		switch b {
		case BackendFile:
		case BackendPostgres:
			if cfg.DatabaseURL == "" {
				return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
			}
		case BackendR2:
			if err := cfg.checkR2(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown storage backend %q", b)
		}
	}

	return cfg, nil
}

func (c *Config) checkR2() error {
	missing := []string{}
	for name, v := range map[string]string{
		"R2_ACCOUNT_ID":        c.R2AccountID,
		"R2_ACCESS_KEY_ID":     c.R2AccessKeyID,
		"R2_SECRET_ACCESS_KEY": c.R2SecretAccessKey,
		"R2_BUCKET_NAME":       c.R2BucketName,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("r2 storage requires %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
