package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver is returned for drivers without a goose dialect.
var ErrUnknownDriver = errors.New("unknown database driver")

// ErrUnknownCommand is returned for unsupported migration commands.
var ErrUnknownCommand = errors.New("unknown migration command")

// Migrator applies the embedded migrations to a database.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// Dialect maps a configured driver name to its goose dialect.
func Dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Source returns the embedded migration files.
func Source() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at compile time
		panic(fmt.Sprintf("embedded migrations missing: %v", err))
	}
	return sub
}

// New creates a Migrator for db using the dialect of driver.
func New(db *sql.DB, driver string, logger *slog.Logger) (*Migrator, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	provider, err := goose.NewProvider(dialect, db, Source())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Migrator{
		provider: provider,
		logger:   logger.With(slog.String("component", "migrations")),
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(r)
	}
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	m.logger.Info("migrations applied", slog.Int("count", len(results)))
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Status describes one migration and whether it has been applied.
type Status struct {
	Version int64
	Path    string
	Applied bool
}

// Status lists every known migration.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Run executes a named command: up, down, status or version.
func (m *Migrator) Run(ctx context.Context, command string) error {
	switch command {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			m.logger.Info("migration status",
				slog.Int64("version", s.Version),
				slog.String("path", s.Path),
				slog.Bool("applied", s.Applied))
		}
		return nil
	case "version":
		version, err := m.Version(ctx)
		if err != nil {
			return err
		}
		m.logger.Info("schema version", slog.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

func (m *Migrator) logResult(r *goose.MigrationResult) {
	attrs := []any{
		slog.String("direction", r.Direction),
		slog.Int64("duration_ms", r.Duration.Milliseconds()),
	}
	if r.Source != nil {
		attrs = append(attrs,
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path))
	}
	if r.Error != nil {
		attrs = append(attrs, slog.String("error", r.Error.Error()))
		m.logger.Error("migration failed", attrs...)
		return
	}
	m.logger.Debug("migration applied", attrs...)
}
