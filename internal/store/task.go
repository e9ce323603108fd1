package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// There is no update or delete: expiry is the only removal path.
type TaskStore interface {
	// Put writes a task record, overwriting any record with the same ID.
	// Returns validation errors from the domain Task if data is invalid.
	Put(ctx context.Context, task *domain.Task) error

	// Get retrieves a live task by ID.
	// Returns ErrTaskNotFound if no record exists or the record has expired,
	// whether or not it is still physically present.
	Get(ctx context.Context, id string) (*domain.Task, error)
}

// ExpiredTaskPurger removes records that are no longer visible to readers.
// It stands in for a native TTL mechanism of the underlying engine and is
// never needed for correctness.
type ExpiredTaskPurger interface {
	// DeleteExpired removes every record whose expiry is at or before the
	// given instant and returns the number of removed records.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// TaskRecord is the flat row layout shared by the SQL adapters:
// ttl holds the absolute expiry in unix seconds and params holds the
// JSON-encoded parameters.
type TaskRecord struct {
	ID     string
	TTL    int64
	Name   string
	Descr  string
	Params string
	Answer string
}

// NewTaskRecord validates a task and flattens it into a row.
func NewTaskRecord(task *domain.Task) (*TaskRecord, error) {
	if task == nil {
		return nil, fmt.Errorf("%w: task is nil", ErrInvalidEntity)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	params, err := json.Marshal(task.Parameters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	return &TaskRecord{
		ID:     task.ID,
		TTL:    task.ExpiresAt.Unix(),
		Name:   string(task.Name),
		Descr:  task.Description,
		Params: string(params),
		Answer: task.Answer,
	}, nil
}

// Task converts the row back into a domain task.
func (r *TaskRecord) Task() (*domain.Task, error) {
	var params domain.Parameters
	if err := json.Unmarshal([]byte(r.Params), &params); err != nil {
		return nil, fmt.Errorf("%w: task %s has unreadable params: %v", ErrInvalidEntity, r.ID, err)
	}

	return &domain.Task{
		ID:          r.ID,
		Name:        domain.TaskName(r.Name),
		Description: r.Descr,
		Parameters:  params,
		Answer:      r.Answer,
		ExpiresAt:   time.Unix(r.TTL, 0).UTC(),
	}, nil
}

// LiveTask converts the row into a task and applies the expiry rule:
// a record whose expiry is at or before now is reported as ErrTaskNotFound.
func (r *TaskRecord) LiveTask(now time.Time) (*domain.Task, error) {
	task, err := r.Task()
	if err != nil {
		return nil, err
	}

	if !task.IsLive(now) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}
