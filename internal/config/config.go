package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by DB_DRIVER
const (
	DriverSurrealDB = "surrealdb"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig selects the game store and holds SurrealDB connection settings
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// PostgresConfig holds settings for the gorm-backed store
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// CacheConfig holds Redis read-through cache settings.
// The cache is disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// MetricsConfig controls the Prometheus endpoint and the dependency probe
type MetricsConfig struct {
	Enabled       bool
	Path          string
	ProbeInterval time.Duration
}

// LoadDotEnv loads variables from a .env file when one exists.
// Variables already present in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:    strings.ToLower(getEnv("DB_DRIVER", DriverSurrealDB)),
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "gamevault"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getIntEnv("REDIS_DB", 0),
			TTL:           getDurationEnv("CACHE_TTL", 5*time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled:       getBoolEnv("METRICS_ENABLED", true),
			Path:          getEnv("METRICS_PATH", "/metrics"),
			ProbeInterval: getDurationEnv("DEPENDENCY_PROBE_INTERVAL", 30*time.Second),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// CacheEnabled reports whether a Redis address was configured
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Store validation
	switch c.Database.Driver {
	case DriverSurrealDB:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required"))
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER is postgres"))
		}
		if c.Postgres.MaxOpenConns <= 0 {
			errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
		}
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("DB_DRIVER memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be '%s', '%s', or '%s', got '%s'",
			DriverSurrealDB, DriverPostgres, DriverMemory, c.Database.Driver))
	}

	// Cache validation
	if c.CacheEnabled() && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive when REDIS_ADDR is set"))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, errors.New("METRICS_PATH must start with '/'"))
	}
	if c.Metrics.Enabled && c.Metrics.ProbeInterval <= 0 {
		errs = append(errs, errors.New("DEPENDENCY_PROBE_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
