package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/quizchain-api/internal/config"
	"github.com/phrazzld/quizchain-api/internal/platform/migrations"
	"github.com/phrazzld/quizchain-api/internal/platform/postgres"
	"github.com/phrazzld/quizchain-api/internal/platform/sqlite"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/phrazzld/quizchain-api/internal/store"
)

const pingTimeout = 5 * time.Second

// taskStorage is what the application needs from a store adapter.
type taskStorage interface {
	store.TaskStore
	store.ExpiredTaskPurger
}

// openDatabase establishes a connection for the configured driver and
// configures its pool. The connection is verified before returning.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case migrations.DriverPostgres:
		db, err = openPostgres(ctx, cfg)
	case migrations.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	logger.Info("database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = config.DefaultMaxOpenConns
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns((maxOpen + 1) / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newTaskStorage returns the store adapter for driver. now is the clock the
// adapter checks expiry against.
func newTaskStorage(driver string, db *sql.DB, logger *slog.Logger, now func() time.Time) (taskStorage, error) {
	switch driver {
	case migrations.DriverPostgres:
		return postgres.NewPostgresTaskStore(db, logger).WithClock(now), nil
	case migrations.DriverSQLite:
		return sqlite.NewSQLiteTaskStore(db, logger).WithClock(now), nil
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnknownDriver, driver)
	}
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
	}
}
