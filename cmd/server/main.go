package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chemo-dose-safety-server/internal/api"
	"github.com/chemo-dose-safety-server/internal/config"
	"github.com/chemo-dose-safety-server/internal/database"
	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/internal/engine"
	"github.com/chemo-dose-safety-server/internal/formulary"
	"github.com/chemo-dose-safety-server/internal/review"
	"github.com/chemo-dose-safety-server/pkg/external"
)

func main() {
	// A local .env is optional; real deployments set environment variables
	// directly.
	_ = godotenv.Load()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host":           cfg.Server.Host,
		"port":           cfg.Server.Port,
		"review_backend": cfg.Review.Backend,
	}).Info("Starting chemo dose safety server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reviews, dbHealth, cleanup, err := buildReviewStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize review store")
	}
	defer cleanup()

	resolver, err := buildResolver(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize drug name resolver")
	}

	server := api.NewServer(cfg, logger, engine.New(logger), resolver, reviews, dbHealth)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// buildReviewStore creates the configured review store. On the postgres
// backend it also runs migrations and returns the pool for health checks;
// on the sqlite backend the returned health checker is nil.
func buildReviewStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (review.Store, api.HealthChecker, func(), error) {
	switch cfg.Review.Backend {
	case "postgres":
		runner, err := database.NewMigrationRunner(cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, nil, nil, err
		}
		runner.Close()

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}

		store, err := review.NewPostgresStoreFromURL(database.ConnectionURL(cfg.Database))
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}

		cleanup := func() {
			store.Close()
			db.Close()
		}
		return store, db, cleanup, nil

	default:
		store, err := review.NewSQLiteStore(cfg.Review.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() { store.Close() }, nil
	}
}

// buildResolver wires the optional Redis and RxNorm tiers behind the
// formulary resolver.
func buildResolver(cfg *domain.Config, logger *logrus.Logger) (formulary.Resolver, error) {
	opts := formulary.Options{
		MemorySize: cfg.Cache.MemorySize,
		RedisTTL:   cfg.Cache.DefaultTTL,
	}

	if cfg.Cache.Enabled {
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		opts.Redis = redis.NewClient(redisOpts)
	}

	if cfg.RxNorm.Enabled {
		opts.Normalizer = external.NewRxNormClient(external.RxNormConfig{
			BaseURL:   cfg.RxNorm.BaseURL,
			Timeout:   cfg.RxNorm.Timeout,
			RateLimit: cfg.RxNorm.RateLimit,
		}, logger)
	}

	return formulary.NewCachedResolver(opts, logger)
}
