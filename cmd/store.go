package cmd

import (
	"context"
	"fmt"

	"rental-listings-importer/config"
	"rental-listings-importer/storage"
	"rental-listings-importer/utils"
)

// openStore connects to the backend named by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.ListingStore, error) {
	switch cfg.StoreBackend {
	case "memory", "":
		logger.Warn("[store] Using in-memory store, listings are lost on exit")
		return storage.NewMemoryStore(), nil
	case "postgres":
		logger.Info("[store] Connecting to PostgreSQL %s:%s/%s via %s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB, cfg.DBDriver)
		store, err := storage.NewPostgresStore(ctx, cfg.DBDriver, cfg.DSN())
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		logger.Info("[store] Connecting to Redis %s db=%d", cfg.RedisAddress, cfg.RedisDB)
		store, err := storage.NewRedisStore(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mongo":
		logger.Info("[store] Connecting to MongoDB database %s", cfg.MongoDatabase)
		store, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want memory, postgres, redis or mongo)", cfg.StoreBackend)
	}
}

// retryConfig leaves Logger unset so each import run logs retries under its
// own run_id.
func retryConfig(cfg *config.Config) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay(),
	}
}
