package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/gamevault/api/internal/config"
	"github.com/forgo/gamevault/api/internal/database"
	"github.com/forgo/gamevault/api/internal/handler"
	"github.com/forgo/gamevault/api/internal/jobs"
	"github.com/forgo/gamevault/api/internal/metrics"
	"github.com/forgo/gamevault/api/internal/middleware"
	"github.com/forgo/gamevault/api/internal/repository"
	"github.com/forgo/gamevault/api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize the game store
	store, storePinger, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open game store",
			slog.String("driver", cfg.Database.Driver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer closeStore()

	checks := map[string]handler.Pinger{"store": storePinger}
	probed := map[string]jobs.Pinger{"store": storePinger}

	// Optional read-through cache
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer func() { _ = client.Close() }()

		cache := repository.NewRedisCache(client)
		if err := cache.Ping(ctx); err != nil {
			slog.Warn("redis not reachable, cache will be bypassed until it is",
				slog.String("addr", cfg.Cache.RedisAddr),
				slog.String("error", err.Error()),
			)
		}

		store = repository.NewCachedGameRepository(repository.CachedGameRepositoryConfig{
			Store:  store,
			Cache:  cache,
			TTL:    cfg.Cache.TTL,
			Logger: logger,
		})
		checks["cache"] = cache
		probed["cache"] = cache
		slog.Info("game cache enabled", slog.String("addr", cfg.Cache.RedisAddr))
	}

	// Initialize service
	svcCfg := service.GameServiceConfig{
		GameRepo: store,
		Logger:   logger,
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		svcCfg.Recorder = recorder

		// Keep the dependency_up gauge current between scrapes
		probe := jobs.NewDependencyProbe(jobs.DependencyProbeConfig{
			Dependencies: probed,
			Recorder:     recorder,
			Logger:       logger,
			Interval:     cfg.Metrics.ProbeInterval,
		})
		probe.Start()
		defer probe.Stop()
	}

	gameService := service.NewGameService(svcCfg)

	// Initialize handlers
	gameHandler := handler.NewGameHandler(gameService)
	healthHandler := handler.NewHealthHandler(checks)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Game endpoints
	gameHandler.Register(mux)

	// Apply global middleware
	middlewares := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	}
	if recorder != nil {
		mux.Handle("GET "+cfg.Metrics.Path, recorder.Handler())
		// Innermost, so the matched route pattern is visible after ServeHTTP
		middlewares = append(middlewares, middleware.Metrics(recorder))
	}
	wrapped := middleware.Chain(mux, middlewares...)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("store", cfg.Database.Driver),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// openStore connects the configured game store and prepares its schema
func openStore(ctx context.Context, cfg *config.Config) (repository.GameStore, handler.Pinger, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, database.PostgresConfig{
			URL:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}

		repo := repository.NewPostgresGameRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		slog.Info("connected to postgres")
		return repo, repo, closeDB, nil

	case config.DriverMemory:
		slog.Warn("using in-memory game store; data is lost on restart")
		repo := repository.NewMemoryGameRepository()
		return repo, repo, func() {}, nil

	default:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() { _ = db.Close() }

		repo := repository.NewGameRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		slog.Info("connected to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Database),
		)
		return repo, db, closeDB, nil
	}
}
