package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/quizchain-api/internal/api"
	"github.com/phrazzld/quizchain-api/internal/config"
	"github.com/phrazzld/quizchain-api/internal/domain/quiz"
	"github.com/phrazzld/quizchain-api/internal/events"
	"github.com/phrazzld/quizchain-api/internal/service"
	"github.com/phrazzld/quizchain-api/internal/sweeper"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore    taskStorage
	eventEmitter events.EventEmitter
	taskService  service.TaskService
	taskHandler  *api.TaskHandler
	links        api.LinkBuilder

	// sweeper is nil when expired task removal is disabled
	sweeper *sweeper.Sweeper
}

// appOption customizes an application. Only tests use it.
type appOption func(*appSettings)

type appSettings struct {
	now func() time.Time
	rng quiz.Rand
}

// withClock makes the store, service and sweeper agree on a custom clock.
func withClock(now func() time.Time) appOption {
	return func(s *appSettings) { s.now = now }
}

// withRand replaces the random source of the task generators.
func withRand(rng quiz.Rand) appOption {
	return func(s *appSettings) { s.rng = rng }
}

// newApplication creates a new application instance with all dependencies
// initialized. The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, opts ...appOption) (*application, error) {
	settings := appSettings{now: time.Now}
	for _, opt := range opts {
		opt(&settings)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error

	app.taskStore, err = newTaskStorage(cfg.Database.Driver, db, logger, settings.now)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))
	app.eventEmitter = emitter

	app.taskService, err = service.NewTaskService(
		app.taskStore,
		quiz.NewRegistry(settings.rng),
		app.eventEmitter,
		logger,
		service.WithTaskTTL(cfg.Quiz.TaskTTL()),
		service.WithClock(settings.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.links = api.NewLinkBuilder(cfg.Quiz.LinkScheme, cfg.Quiz.PathPrefix)
	app.taskHandler = api.NewTaskHandler(
		app.taskService,
		app.links,
		cfg.Quiz.FinalLink,
		logger,
	)

	if cfg.Sweeper.Enabled {
		s, err := sweeper.New(app.taskStore, cfg.Sweeper.Schedule, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sweeper: %w", err)
		}
		app.sweeper = s.WithClock(settings.now)
	}

	logger.Info("application initialized",
		slog.Duration("task_ttl", cfg.Quiz.TaskTTL()),
		slog.String("path_prefix", cfg.Quiz.PathPrefix))
	return app, nil
}
