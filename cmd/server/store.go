package main

import (
	"context"
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"go.uber.org/zap"
)

// openStore 按 STORE_BACKEND 构建内容存储；返回的 closer 总是非 nil
func openStore(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*services.ContentStore, func() error, error) {
	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		return nil, nil, err
	}

	opts := []services.Option{services.WithSeed(seed), services.WithLogger(logger)}
	closer := func() error { return nil }

	switch cfg.StoreBackend {
	case config.BackendMemory:
	case config.BackendBadger:
		p, err := db.OpenBadger(cfg.BadgerPath, logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, services.WithPersister(p))
		closer = p.Close
	case config.BackendPostgres:
		gdb, err := db.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, services.WithPersister(db.NewGormPersister(gdb)))
		closer = func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	store, err := services.NewContentStore(ctx, opts...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	logger.Infow("content store ready", "backend", cfg.StoreBackend, "posts", len(store.List()))
	return store, closer, nil
}

func loadSeed(path string) ([]models.Post, error) {
	if path == "" {
		return services.DefaultSeed()
	}
	return services.LoadSeedFile(path)
}
