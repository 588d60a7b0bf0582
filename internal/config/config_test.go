package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:    DriverSurrealDB,
			Host:      "localhost",
			Port:      "8000",
			Namespace: "gamevault",
			Database:  "main",
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics", ProbeInterval: 30 * time.Second},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = []string{}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty CORS_ALLOWED_ORIGINS")
	}
	if !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected error to mention CORS_ALLOWED_ORIGINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_UnknownDriver(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = "mongodb"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown DB_DRIVER")
	}
	if !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Errorf("expected error to mention DB_DRIVER, got: %v", err)
	}
}

func TestConfig_Validate_PostgresRequiresURL(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = DriverPostgres
	cfg.Postgres.MaxOpenConns = 10

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("expected error to mention DATABASE_URL, got: %v", err)
	}

	cfg.Postgres.URL = "postgres://localhost/games"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid postgres config, got: %v", err)
	}
}

func TestConfig_Validate_PostgresSkipsSurrealFields(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database = DatabaseConfig{Driver: DriverPostgres}
	cfg.Postgres = PostgresConfig{URL: "postgres://localhost/games", MaxOpenConns: 5}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected SurrealDB fields to be ignored for postgres, got: %v", err)
	}
}

func TestConfig_Validate_MemoryDriverRejectedInProduction(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = DriverMemory

	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory driver should be valid in development: %v", err)
	}

	cfg.Server.Env = "production"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected memory driver to be rejected in production")
	}
	if !strings.Contains(err.Error(), "memory") {
		t.Errorf("expected error to mention memory, got: %v", err)
	}
}

func TestConfig_Validate_CacheTTL(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Cache.RedisAddr = "localhost:6379"
	cfg.Cache.TTL = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero CACHE_TTL with cache enabled")
	}
	if !strings.Contains(err.Error(), "CACHE_TTL") {
		t.Errorf("expected error to mention CACHE_TTL, got: %v", err)
	}

	cfg.Cache.RedisAddr = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("TTL should not matter with cache disabled, got: %v", err)
	}
}

func TestConfig_Validate_ProbeInterval(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Metrics.ProbeInterval = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DEPENDENCY_PROBE_INTERVAL") {
		t.Fatalf("expected DEPENDENCY_PROBE_INTERVAL error, got: %v", err)
	}

	cfg.Metrics.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("probe interval should not matter with metrics disabled, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Database.Host = ""
	cfg.Metrics.Path = "metrics"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"SERVER_PORT", "DB_HOST", "METRICS_PATH"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := validBaseConfig()
	if !cfg.IsDevelopment() {
		t.Error("expected development")
	}
	cfg.Server.Env = "production"
	if cfg.IsDevelopment() {
		t.Error("expected not development")
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "REDIS_ADDR", "CACHE_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSurrealDB {
		t.Errorf("expected default driver surrealdb, got %s", cfg.Database.Driver)
	}
	if cfg.CacheEnabled() {
		t.Error("expected cache disabled by default")
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default TTL 5m, got %v", cfg.Cache.TTL)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://db/games")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected driver to be lowercased, got %s", cfg.Database.Driver)
	}
	if cfg.Postgres.URL != "postgres://db/games" {
		t.Errorf("unexpected DATABASE_URL: %s", cfg.Postgres.URL)
	}
	if !cfg.CacheEnabled() || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("unexpected cache config: %+v", cfg.Cache)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// Missing file is not an error
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	content := "GAMEVAULT_DOTENV_ONLY=from-file\nGAMEVAULT_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("GAMEVAULT_DOTENV_SET", "from-env")
	t.Setenv("GAMEVAULT_DOTENV_ONLY", "")
	_ = os.Unsetenv("GAMEVAULT_DOTENV_ONLY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("GAMEVAULT_DOTENV_ONLY"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("GAMEVAULT_DOTENV_SET"); got != "from-env" {
		t.Errorf("expected existing env to win, got %q", got)
	}
}

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:    DriverSurrealDB,
			Host:      "localhost",
			Port:      "8000",
			Namespace: "gamevault",
			Database:  "main",
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:       true,
			Path:          "/metrics",
			ProbeInterval: 30 * time.Second,
		},
	}
}
