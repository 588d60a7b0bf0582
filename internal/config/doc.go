// Package config manages application configuration for the game catalog API.
//
// Configuration is read from environment variables, optionally seeded from a
// .env file, and validated once at startup:
//
//	_ = config.LoadDotEnv(".env")
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: store driver and SurrealDB connection settings
//   - PostgresConfig: gorm/Postgres connection and pool settings
//   - CacheConfig: optional Redis read-through cache
//   - MetricsConfig: Prometheus endpoint
//
// # Environment Variables
//
//	SERVER_PORT       - HTTP server port (default: 8080)
//	DB_DRIVER         - surrealdb, postgres or memory (default: surrealdb)
//	DB_HOST, DB_PORT  - SurrealDB endpoint
//	DATABASE_URL      - Postgres DSN (postgres driver only)
//	REDIS_ADDR        - enables the game cache when set
//	CACHE_TTL         - cached game lifetime (default: 5m)
package config
