package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maktab/hifdh-api/internal/catalog"
	"github.com/maktab/hifdh-api/internal/config"
	"github.com/maktab/hifdh-api/internal/platform/postgres"
	"github.com/maktab/hifdh-api/internal/platform/redis"
	"github.com/maktab/hifdh-api/internal/service"
	"github.com/maktab/hifdh-api/internal/service/auth"
	"github.com/maktab/hifdh-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	portionStore store.PortionStore
	studentStore store.StudentStore
	groupStore   store.GroupStore

	// Section catalog, loaded once and read-only for the process lifetime
	catalog catalog.Provider

	// Service layer
	jwtService    auth.JWTService
	ledgerService *service.LedgerService
	rosterService *service.RosterService

	// Optional leaderboard cache
	redisClient *goredis.Client
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT verification service initialized")

	app.catalog = catalog.NewQuran()
	logger.Info("Section catalog loaded",
		"sections", len(app.catalog.ListSections()),
		"total_verses", app.catalog.TotalVerses())

	app.portionStore = postgres.NewPostgresPortionStore(db, logger)
	app.studentStore = postgres.NewPostgresStudentStore(db, logger)
	app.groupStore = postgres.NewPostgresGroupStore(db, logger)

	if err := seedSections(ctx, db, app.catalog, logger); err != nil {
		return nil, fmt.Errorf("failed to seed section catalog: %w", err)
	}

	var cache service.LeaderboardCache
	if cfg.Cache.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		app.redisClient = goredis.NewClient(opts)
		if err := app.redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache = redis.NewLeaderboardCache(
			app.redisClient,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			logger,
		)
		logger.Info("Leaderboard cache enabled", "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	app.ledgerService = service.NewLedgerService(
		app.portionStore,
		app.studentStore,
		app.groupStore,
		app.catalog,
		cache,
		logger,
	)
	app.rosterService = service.NewRosterService(
		app.studentStore,
		app.groupStore,
		cache,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}
}

// seedSections upserts the built-in section catalog into the sections
// table so portion rows always have a valid foreign key target. Existing
// rows are left untouched. Runs in a single transaction so a restart
// never observes a half-seeded catalog.
func seedSections(ctx context.Context, db *sql.DB, cat catalog.Provider, logger *slog.Logger) error {
	query := `
		INSERT INTO sections (id, name, sort_order, verse_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		for _, section := range cat.ListSections() {
			if _, err := tx.ExecContext(ctx, query,
				section.ID, section.Name, section.Order, section.VerseCount); err != nil {
				return fmt.Errorf("failed to seed section %d: %w", section.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Debug("section catalog seeded", "sections", len(cat.ListSections()))
	return nil
}
