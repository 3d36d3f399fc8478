package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/finance-tracker/internal/config"
	"github.com/baharkarakas/finance-tracker/internal/db"
	"github.com/baharkarakas/finance-tracker/internal/logger"
	"github.com/baharkarakas/finance-tracker/internal/mongo"
	repo "github.com/baharkarakas/finance-tracker/internal/repository"
	"github.com/baharkarakas/finance-tracker/internal/repository/memory"
	"github.com/baharkarakas/finance-tracker/internal/repository/mongostore"
	"github.com/baharkarakas/finance-tracker/internal/repository/postgres"
)

// setup loads config and installs the default logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)
	return cfg, log, nil
}

// openLedger connects the configured store. migrate forces schema/index setup.
func openLedger(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) (repo.Ledger, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return repo.Ledger{}, nil, fmt.Errorf("db connect: %w", err)
		}
		if migrate {
			if err := db.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return repo.Ledger{}, nil, fmt.Errorf("migrations: %w", err)
			}
			log.Info("migrations applied")
		}
		return postgres.NewLedger(pool), pool.Close, nil

	case config.DriverMongo:
		client, err := mongo.NewClient(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return repo.Ledger{}, nil, fmt.Errorf("mongo connect: %w", err)
		}
		closeFn := func() {
			if err := client.Close(context.Background()); err != nil {
				log.Warn("mongo close", "err", err)
			}
		}
		if migrate {
			if err := mongostore.EnsureIndexes(ctx, client.Database()); err != nil {
				closeFn()
				return repo.Ledger{}, nil, fmt.Errorf("mongo indexes: %w", err)
			}
			log.Info("mongo indexes ensured")
		}
		return mongostore.NewLedger(client.Database()), closeFn, nil

	default:
		log.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil
	}
}
