package config

import (
	"log/slog"
	"os"
	"strings"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// Config holds process-level settings read from the environment
type Config struct {
	Addr        string
	StorageType string
	RedisURL    string
	DatabaseURL string
	BalanceFile string
	CatalogFile string
	StaticDir   string
	// AssetVersion identifies the deployed page bundle; clients holding
	// another version reload
	AssetVersion string
	LogLevel     slog.Level
}

// FromEnv loads configuration from environment variables
// Falls back to defaults if variables are not set
func FromEnv() Config {
	cfg := Config{
		Addr:        getEnvOrDefault("ADDR", ":8080"),
		StorageType: getEnvOrDefault("STORAGE_TYPE", StorageTypeMemory),
		RedisURL:    os.Getenv("REDIS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BalanceFile: os.Getenv("BALANCE_FILE"),
		CatalogFile: os.Getenv("FURNITURE_CATALOG"),
		StaticDir:   getEnvOrDefault("STATIC_DIR", "web/dist"),
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),

		AssetVersion: getEnvOrDefault("ASSET_VERSION", "1"),
	}
	return cfg
}

// Balance returns the balance file contents, or the defaults if none is set
func (c Config) Balance() (Balance, error) {
	if c.BalanceFile == "" {
		return DefaultBalance(), nil
	}
	return LoadBalance(c.BalanceFile)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
