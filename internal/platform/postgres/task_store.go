package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/phrazzld/quizchain-api/internal/store"
)

const (
	putTaskQuery = `
		INSERT INTO tasks (id, ttl, name, descr, params, answer)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET ttl = EXCLUDED.ttl,
			name = EXCLUDED.name,
			descr = EXCLUDED.descr,
			params = EXCLUDED.params,
			answer = EXCLUDED.answer
	`

	getTaskQuery = `
		SELECT id, ttl, name, descr, params, answer
		FROM tasks
		WHERE id = $1
	`

	deleteExpiredQuery = `
		DELETE FROM tasks
		WHERE ttl <= $1
	`
)

// PostgresTaskStore implements store.TaskStore using PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// Ensure PostgresTaskStore implements the store interfaces
var (
	_ store.TaskStore         = (*PostgresTaskStore)(nil)
	_ store.ExpiredTaskPurger = (*PostgresTaskStore)(nil)
)

// NewPostgresTaskStore creates a new PostgresTaskStore.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    time.Now,
	}
}

// WithClock returns a copy of the store that uses now to decide expiry.
func (s *PostgresTaskStore) WithClock(now func() time.Time) *PostgresTaskStore {
	clone := *s
	clone.now = now
	return &clone
}

// Put implements store.TaskStore.Put.
func (s *PostgresTaskStore) Put(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := store.NewTaskRecord(task)
	if err != nil {
		log.Warn("task validation failed during put", slog.String("error", err.Error()))
		return err
	}

	_, err = s.db.ExecContext(ctx, putTaskQuery,
		record.ID,
		record.TTL,
		record.Name,
		record.Descr,
		record.Params,
		record.Answer,
	)
	if err != nil {
		log.Error("failed to put task",
			slog.String("task_id", record.ID),
			slog.String("task_name", record.Name),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("task", "put", "failed to write task", MapError(err))
	}

	log.Debug("task stored",
		slog.String("task_id", record.ID),
		slog.String("task_name", record.Name),
		slog.Int64("ttl", record.TTL))
	return nil
}

// Get implements store.TaskStore.Get.
func (s *PostgresTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var record store.TaskRecord
	err := s.db.QueryRowContext(ctx, getTaskQuery, id).Scan(
		&record.ID,
		&record.TTL,
		&record.Name,
		&record.Descr,
		&record.Params,
		&record.Answer,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrTaskNotFound) {
			log.Debug("task not found", slog.String("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("task_id", id),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "get", "failed to read task", mapped)
	}

	task, err := record.LiveTask(s.now())
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task expired", slog.String("task_id", id), slog.Int64("ttl", record.TTL))
		} else {
			log.Error("stored task is unreadable",
				slog.String("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	return task, nil
}

// DeleteExpired implements store.ExpiredTaskPurger.DeleteExpired.
func (s *PostgresTaskStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, deleteExpiredQuery, before.Unix())
	if err != nil {
		log.Error("failed to delete expired tasks", slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError("task", "delete_expired", "failed to delete expired tasks", MapError(err))
	}

	removed, err := CheckRowsAffected(result)
	if err != nil {
		return 0, err
	}

	log.Debug("expired tasks deleted", slog.Int64("count", removed))
	return removed, nil
}
