package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/quizchain-api/internal/config"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/platform/migrations"
	"github.com/phrazzld/quizchain-api/internal/sweeper"
	"github.com/spf13/cobra"
)

// cliOptions holds the flag values shared by all commands.
type cliOptions struct {
	configPath string
	migrate    bool
}

// newRootCommand builds the quizchain command tree. Running the root command
// without a subcommand serves the API.
func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz chain API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending migrations before serving")

	root := &cobra.Command{
		Use:          "quizchain",
		Short:        "quizchain - a chain of timed quiz tasks over HTTP",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.Flags().AddFlagSet(serveCmd.Flags())

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrate(cmd.Context(), opts, command)
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired tasks once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := runSweep(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired tasks\n", removed)
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd, sweepCmd)
	return root
}

// loadAppConfig loads the configuration and sets up the default logger from it.
func loadAppConfig(opts *cliOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("sweeper_enabled", cfg.Sweeper.Enabled))

	return cfg, l, nil
}

func runServe(ctx context.Context, opts *cliOptions) error {
	cfg, l, err := loadAppConfig(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if opts.migrate {
		if err := migrateDatabase(ctx, db, cfg.Database.Driver, l, "up"); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func runMigrate(ctx context.Context, opts *cliOptions, command string) error {
	cfg, l, err := loadAppConfig(opts)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer closeDatabase(db, l)

	return migrateDatabase(ctx, db, cfg.Database.Driver, l, command)
}

func runSweep(ctx context.Context, opts *cliOptions) (int64, error) {
	cfg, l, err := loadAppConfig(opts)
	if err != nil {
		return 0, err
	}

	db, err := openDatabase(ctx, cfg.Database, l)
	if err != nil {
		return 0, err
	}
	defer closeDatabase(db, l)

	storage, err := newTaskStorage(cfg.Database.Driver, db, l, time.Now)
	if err != nil {
		return 0, err
	}

	s, err := sweeper.New(storage, cfg.Sweeper.Schedule, l)
	if err != nil {
		return 0, err
	}

	return s.Sweep(ctx)
}

// migrateDatabase runs one migration command against db.
func migrateDatabase(ctx context.Context, db *sql.DB, driver string, l *slog.Logger, command string) error {
	m, err := migrations.New(db, driver, l)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := m.Run(ctx, command); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
