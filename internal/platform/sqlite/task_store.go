package sqlite

import (
	"context"
	"errors"
	"fmt"
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
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET ttl = excluded.ttl,
			name = excluded.name,
			descr = excluded.descr,
			params = excluded.params,
			answer = excluded.answer
	`

	getTaskQuery = `
		SELECT id, ttl, name, descr, params, answer
		FROM tasks
		WHERE id = ?
	`

	deleteExpiredQuery = `DELETE FROM tasks WHERE ttl <= ?`
)

// SQLiteTaskStore implements store.TaskStore on SQLite.
type SQLiteTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

var (
	_ store.TaskStore         = (*SQLiteTaskStore)(nil)
	_ store.ExpiredTaskPurger = (*SQLiteTaskStore)(nil)
)

// NewSQLiteTaskStore creates a new SQLiteTaskStore.
func NewSQLiteTaskStore(db store.DBTX, logger *slog.Logger) *SQLiteTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store"), slog.String("driver", DriverName)),
		now:    time.Now,
	}
}

// WithClock returns a copy of the store that uses now to decide expiry.
func (s *SQLiteTaskStore) WithClock(now func() time.Time) *SQLiteTaskStore {
	clone := *s
	clone.now = now
	return &clone
}

// Put implements store.TaskStore.Put.
func (s *SQLiteTaskStore) Put(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := store.NewTaskRecord(task)
	if err != nil {
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
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("task", "put", "failed to write task", MapError(err))
	}

	return nil
}

// Get implements store.TaskStore.Get.
func (s *SQLiteTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
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
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("task_id", id),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "get", "failed to read task", mapped)
	}

	return record.LiveTask(s.now())
}

// DeleteExpired implements store.ExpiredTaskPurger.DeleteExpired.
func (s *SQLiteTaskStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, deleteExpiredQuery, before.Unix())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete expired tasks",
			slog.String("error", redact.Error(err)))
		return 0, store.NewStoreError("task", "delete_expired", "failed to delete expired tasks", MapError(err))
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}
