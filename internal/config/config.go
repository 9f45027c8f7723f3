package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Shortcut inventory backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Shortcut inventory
	ShortcutBackend         string // "memory" or "redis"
	RedisURL                string
	MaxShortcuts            int
	ShortcutRefreshInterval time.Duration // 0 disables periodic re-ranking

	// Keyword files
	ExportDir string // Directory for file exports and staged imports

	// OIDC bearer verification, disabled when OIDCIssuer is empty
	OIDCIssuer   string
	OIDCClientID string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitPerMinute int // 0 disables the limiter

	// Path of the optional YAML file
	ConfigFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:                     getEnv("ENV", "development"),
		ServerAddr:              getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL:             getEnv("DATABASE_URL", "postgres://localhost:5432/msgcore?sslmode=disable"),
		ShortcutBackend:         strings.ToLower(getEnv("SHORTCUT_BACKEND", BackendMemory)),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MaxShortcuts:            getEnvInt("MAX_SHORTCUTS", 15),
		ShortcutRefreshInterval: getEnvDuration("SHORTCUT_REFRESH_INTERVAL", 0),
		ExportDir:               getEnv("EXPORT_DIR", os.TempDir()),
		OIDCIssuer:              getEnv("OIDC_ISSUER", ""),
		OIDCClientID:            getEnv("OIDC_CLIENT_ID", ""),
		CORSOrigins:             getEnv("CORS_ORIGINS", ""),
		RateLimitPerMinute:      getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ConfigFile:              getEnv("CONFIG_FILE", "config.yaml"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UsesRedis reports whether shortcuts are stored in Redis.
func (c *Config) UsesRedis() bool {
	return c.ShortcutBackend == BackendRedis
}

// AuthEnabled reports whether API requests must carry a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.OIDCIssuer != ""
}
