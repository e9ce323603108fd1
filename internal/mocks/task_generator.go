package mocks

import (
	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/domain/quiz"
	"github.com/stretchr/testify/mock"
)

// MockTaskGenerator is a testify mock of service.TaskGenerator.
type MockTaskGenerator struct {
	mock.Mock
}

// Generate implements service.TaskGenerator.
func (m *MockTaskGenerator) Generate(name domain.TaskName) (*quiz.Quiz, error) {
	args := m.Called(name)
	q, _ := args.Get(0).(*quiz.Quiz)
	return q, args.Error(1)
}
