package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/domain/quiz"
	"github.com/phrazzld/quizchain-api/internal/events"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/phrazzld/quizchain-api/internal/store"
)

// DefaultTaskTTL is the lifetime of a task when none is configured.
const DefaultTaskTTL = 30 * time.Second

// TaskGenerator produces the content of a new task.
// *quiz.Registry satisfies it.
type TaskGenerator interface {
	Generate(name domain.TaskName) (*quiz.Quiz, error)
}

// TaskView is what a client sees of a live task. The answer is never part of it.
type TaskView struct {
	ID          string
	Name        domain.TaskName
	Description string
	Parameters  domain.Parameters
	// TTL is the remaining lifetime in whole seconds.
	TTL time.Duration
}

// Outcome is the result of a submission.
//
//   - Rejected: Accepted is false.
//   - Accepted mid-chain: Accepted is true and NextTaskID names the successor.
//   - Accepted on the last task: Accepted and Finished are true.
type Outcome struct {
	Accepted   bool
	Finished   bool
	NextTaskID string
}

// TaskService drives a client through the fixed task sequence.
type TaskService interface {
	// Start creates the first task of the sequence and returns its ID.
	Start(ctx context.Context) (string, error)

	// Fetch returns the live task with the given ID.
	// Returns ErrTaskNotFound if it does not exist or has expired.
	Fetch(ctx context.Context, id string) (*TaskView, error)

	// Submit checks an answer and advances the chain on success.
	// Returns ErrTaskNotFound if the task does not exist or has expired.
	Submit(ctx context.Context, id, answer string) (*Outcome, error)
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithTaskTTL sets the lifetime of every task the service creates.
func WithTaskTTL(ttl time.Duration) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for expiry and TTL computations.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces domain.NewTaskID.
func WithIDGenerator(newID func() (string, error)) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if newID != nil {
			s.newID = newID
		}
	}
}

type taskServiceImpl struct {
	store        store.TaskStore
	generator    TaskGenerator
	eventEmitter events.EventEmitter
	logger       *slog.Logger
	ttl          time.Duration
	now          func() time.Time
	newID        func() (string, error)
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	generator TaskGenerator,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "taskStore cannot be nil"}
	}
	if generator == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:        taskStore,
		generator:    generator,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "task_service"),
		ttl:          DefaultTaskTTL,
		now:          time.Now,
		newID:        domain.NewTaskID,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Start implements TaskService.
func (s *taskServiceImpl) Start(ctx context.Context) (string, error) {
	task, err := s.createTask(ctx, domain.FirstTask())
	if err != nil {
		return "", NewTaskServiceError("start", "failed to create first task", err)
	}
	return task.ID, nil
}

// Fetch implements TaskService.
func (s *taskServiceImpl) Fetch(ctx context.Context, id string) (*TaskView, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("fetch", "failed to load task", err)
	}

	return &TaskView{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Parameters:  task.Parameters,
		TTL:         task.RemainingTTL(s.now()),
	}, nil
}

// Submit implements TaskService.
//
// Submit reads the task and then, for a correct answer, writes its successor.
// The two steps are not atomic: concurrent correct submissions for the same
// task each create their own successor, and every one of those successors
// is a valid continuation of the chain.
func (s *taskServiceImpl) Submit(ctx context.Context, id, answer string) (*Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("submit", "failed to load task", err)
	}

	log.Debug("answer submitted",
		slog.String("task_id", task.ID),
		slog.String("task_name", string(task.Name)),
		slog.String("answer", redact.Answer(answer)))

	outcome := &Outcome{}
	if task.CheckAnswer(answer) {
		outcome.Accepted = true

		next, ok := task.Name.Next()
		if !ok {
			outcome.Finished = true
		} else {
			successor, err := s.createTask(ctx, next)
			if err != nil {
				return nil, NewTaskServiceError("submit", "failed to create next task", err)
			}
			outcome.NextTaskID = successor.ID
		}
	}

	s.emit(ctx, events.EventTypeTaskAnswered, events.TaskAnsweredPayload{
		TaskID:     task.ID,
		TaskName:   string(task.Name),
		Correct:    outcome.Accepted,
		Finished:   outcome.Finished,
		NextTaskID: outcome.NextTaskID,
	})

	return outcome, nil
}

// createTask generates, persists and announces a new task.
func (s *taskServiceImpl) createTask(ctx context.Context, name domain.TaskName) (*domain.Task, error) {
	q, err := s.generator.Generate(name)
	if err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(id, name, q.Description, q.Parameters, q.Answer, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, task); err != nil {
		return nil, err
	}

	s.emit(ctx, events.EventTypeTaskCreated, events.TaskCreatedPayload{
		TaskID:    task.ID,
		TaskName:  string(task.Name),
		ExpiresAt: task.ExpiresAt,
	})

	return task, nil
}

// emit publishes an event. Failures are logged and never fail the request.
func (s *taskServiceImpl) emit(ctx context.Context, eventType string, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewTaskEvent(eventType, payload, s.now())
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", redact.Error(err)))
	}
}
