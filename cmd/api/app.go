package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/farmease/workmatch/internal/config"
	"github.com/farmease/workmatch/internal/database"
	"github.com/farmease/workmatch/internal/deadline"
	"github.com/farmease/workmatch/internal/listing"
	"github.com/farmease/workmatch/internal/notification"
	"github.com/farmease/workmatch/pkg/logger"
)

// app holds the dependencies shared by every command
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	rules *deadline.Rules
	db    *sql.DB

	listingStore      listing.Store
	notificationStore notification.Store

	fanout        *notification.Fanout
	listings      *listing.Service
	notifications *notification.Service
}

// newApp loads configuration, opens storage and builds the services
func newApp(ctx context.Context) (*app, error) {
	// Load .env file
	envErr := godotenv.Load()

	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)
	if envErr != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	a := &app{cfg: cfg, log: log, rules: deadline.NewRules(loc)}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		a.listingStore = listing.NewMemoryRepository()
		a.notificationStore = notification.NewMemoryRepository()
	case config.StoragePostgres:
		db, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db, log); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		a.db = db
		a.listingStore = listing.NewRepository(db)
		a.notificationStore = notification.NewRepository(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	a.fanout = notification.NewFanout(a.notificationStore, log)
	a.notifications = notification.NewService(a.notificationStore)
	a.listings = listing.NewService(a.listingStore, a.rules, a.fanout, log)
	return a, nil
}

func (a *app) connect(ctx context.Context) (*sql.DB, error) {
	db, err := database.NewPostgresConnection(ctx, database.PostgresConfig{
		DSN:             a.cfg.DatabaseURL,
		MaxOpenConns:    a.cfg.DBMaxOpenConns,
		MaxIdleConns:    a.cfg.DBMaxIdleConns,
		ConnMaxIdle:     a.cfg.DBConnMaxIdle,
		ConnMaxLifetime: a.cfg.DBConnMaxLife,
	}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.log.Info().Msg("Connected to database successfully")
	return db, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
