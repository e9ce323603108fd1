package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/phrazzld/quizchain-api/internal/service"
)

// MockTaskService implements service.TaskService for testing.
// Unset functions fall back to ErrTaskNotFound, except Start which fails
// with a generic error.
type MockTaskService struct {
	StartFn  func(ctx context.Context) (string, error)
	FetchFn  func(ctx context.Context, id string) (*service.TaskView, error)
	SubmitFn func(ctx context.Context, id, answer string) (*service.Outcome, error)

	mu          sync.Mutex
	FetchCalls  []string
	SubmitCalls []SubmitCall
	StartCount  int
}

// SubmitCall records the arguments of one Submit call.
type SubmitCall struct {
	ID     string
	Answer string
}

// Start implements service.TaskService.
func (m *MockTaskService) Start(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.StartCount++
	m.mu.Unlock()

	if m.StartFn != nil {
		return m.StartFn(ctx)
	}
	return "", errors.New("not implemented")
}

// Fetch implements service.TaskService.
func (m *MockTaskService) Fetch(ctx context.Context, id string) (*service.TaskView, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, id)
	m.mu.Unlock()

	if m.FetchFn != nil {
		return m.FetchFn(ctx, id)
	}
	return nil, service.ErrTaskNotFound
}

// Submit implements service.TaskService.
func (m *MockTaskService) Submit(ctx context.Context, id, answer string) (*service.Outcome, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, SubmitCall{ID: id, Answer: answer})
	m.mu.Unlock()

	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, id, answer)
	}
	return nil, service.ErrTaskNotFound
}

// Submits returns a copy of the recorded Submit calls.
func (m *MockTaskService) Submits() []SubmitCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SubmitCall, len(m.SubmitCalls))
	copy(out, m.SubmitCalls)
	return out
}
