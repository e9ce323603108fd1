package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a testify mock of store.TaskStore and store.ExpiredTaskPurger.
type MockTaskStore struct {
	mock.Mock
}

// Put implements store.TaskStore.
func (m *MockTaskStore) Put(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Get implements store.TaskStore.
func (m *MockTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// DeleteExpired implements store.ExpiredTaskPurger.
func (m *MockTaskStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
