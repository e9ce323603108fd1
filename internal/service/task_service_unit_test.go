package service_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/domain/quiz"
	"github.com/phrazzld/quizchain-api/internal/mocks"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/service"
	"github.com/phrazzld/quizchain-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0).UTC()

func fixedIDs(ids ...string) func() (string, error) {
	return func() (string, error) {
		if len(ids) == 0 {
			return "", errors.New("out of ids")
		}
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}
}

func lastTask() *domain.Task {
	return &domain.Task{
		ID:          "0000000f",
		Name:        domain.TaskNameShortestWord,
		Description: "What is the shortest word in array A?",
		Parameters:  domain.Parameters{{Name: "A", Value: []string{"Gaza", "Persepolis"}}},
		Answer:      "Gaza",
		ExpiresAt:   fixedNow.Add(30 * time.Second),
	}
}

func TestNewTaskServiceValidation(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	generator := &mocks.MockTaskGenerator{}
	emitter := &recordingEmitter{}

	tests := []struct {
		name      string
		store     store.TaskStore
		generator service.TaskGenerator
		emitter   *recordingEmitter
		message   string
	}{
		{name: "nil store", generator: generator, emitter: emitter, message: "taskStore cannot be nil"},
		{name: "nil generator", store: taskStore, emitter: emitter, message: "generator cannot be nil"},
		{name: "nil emitter", store: taskStore, generator: generator, message: "eventEmitter cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc service.TaskService
			var err error
			if tt.emitter == nil {
				svc, err = service.NewTaskService(tt.store, tt.generator, nil, nil)
			} else {
				svc, err = service.NewTaskService(tt.store, tt.generator, tt.emitter, nil)
			}
			assert.Nil(t, svc)

			var svcErr *service.TaskServiceError
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, "create_service", svcErr.Operation)
			assert.Equal(t, tt.message, svcErr.Message)
		})
	}
}

func TestStartPersistsFirstTask(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	generator := &mocks.MockTaskGenerator{}
	emitter := &recordingEmitter{}

	generator.On("Generate", domain.TaskNameSum).Return(&quiz.Quiz{
		Description: "What is the sum of a and b?",
		Parameters:  domain.Parameters{{Name: "a", Value: int64(1)}, {Name: "b", Value: int64(2)}},
		Answer:      "3",
	}, nil)
	taskStore.On("Put", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.ID == "00c0ffee" &&
			task.Name == domain.TaskNameSum &&
			task.Answer == "3" &&
			task.ExpiresAt.Equal(fixedNow.Add(45*time.Second))
	})).Return(nil)

	svc, err := service.NewTaskService(taskStore, generator, emitter, nil,
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(fixedIDs("00c0ffee")),
		service.WithTaskTTL(45*time.Second))
	require.NoError(t, err)

	id, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "00c0ffee", id)

	taskStore.AssertExpectations(t)
	generator.AssertExpectations(t)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, "task.created", emitter.events[0].Type)
}

func TestStartFailures(t *testing.T) {
	quizSum := &quiz.Quiz{
		Description: "What is the sum of a and b?",
		Parameters:  domain.Parameters{{Name: "a", Value: int64(0)}, {Name: "b", Value: int64(0)}},
		Answer:      "0",
	}
	storeErr := errors.New("disk full")

	tests := []struct {
		name    string
		setup   func(s *mocks.MockTaskStore, g *mocks.MockTaskGenerator)
		ids     func() (string, error)
		wantErr error
	}{
		{
			name: "generator fails",
			setup: func(s *mocks.MockTaskStore, g *mocks.MockTaskGenerator) {
				g.On("Generate", domain.TaskNameSum).Return(nil, quiz.ErrUnknownTask)
			},
			ids:     fixedIDs("00000001"),
			wantErr: quiz.ErrUnknownTask,
		},
		{
			name: "id source fails",
			setup: func(s *mocks.MockTaskStore, g *mocks.MockTaskGenerator) {
				g.On("Generate", domain.TaskNameSum).Return(quizSum, nil)
			},
			ids: fixedIDs(),
		},
		{
			name: "store fails",
			setup: func(s *mocks.MockTaskStore, g *mocks.MockTaskGenerator) {
				g.On("Generate", domain.TaskNameSum).Return(quizSum, nil)
				s.On("Put", mock.Anything, mock.Anything).Return(storeErr)
			},
			ids:     fixedIDs("00000001"),
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskStore := &mocks.MockTaskStore{}
			generator := &mocks.MockTaskGenerator{}
			tt.setup(taskStore, generator)

			svc, err := service.NewTaskService(taskStore, generator, &recordingEmitter{}, nil,
				service.WithIDGenerator(tt.ids))
			require.NoError(t, err)

			id, err := svc.Start(context.Background())
			assert.Empty(t, id)

			var svcErr *service.TaskServiceError
			require.True(t, errors.As(err, &svcErr), "got %v", err)
			assert.Equal(t, "start", svcErr.Operation)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestFetchMapsStoreErrors(t *testing.T) {
	faultErr := errors.New("connection reset")

	tests := []struct {
		name     string
		storeErr error
		notFound bool
	}{
		{name: "not found", storeErr: store.ErrTaskNotFound, notFound: true},
		{name: "wrapped not found", storeErr: store.NewStoreError("task", "get", "miss", store.ErrTaskNotFound), notFound: true},
		{name: "fault", storeErr: faultErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskStore := &mocks.MockTaskStore{}
			taskStore.On("Get", mock.Anything, "abc").Return(nil, tt.storeErr)

			svc, err := service.NewTaskService(taskStore, &mocks.MockTaskGenerator{}, &recordingEmitter{}, nil)
			require.NoError(t, err)

			_, err = svc.Fetch(context.Background(), "abc")
			if tt.notFound {
				assert.Equal(t, service.ErrTaskNotFound, err)
				return
			}
			assert.True(t, errors.Is(err, faultErr))
			assert.False(t, errors.Is(err, service.ErrTaskNotFound))
		})
	}
}

func TestSubmitLastTaskFinishes(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	generator := &mocks.MockTaskGenerator{}
	taskStore.On("Get", mock.Anything, "0000000f").Return(lastTask(), nil)

	svc, err := service.NewTaskService(taskStore, generator, &recordingEmitter{}, nil)
	require.NoError(t, err)

	outcome, err := svc.Submit(context.Background(), "0000000f", "Gaza")
	require.NoError(t, err)
	assert.Equal(t, &service.Outcome{Accepted: true, Finished: true}, outcome)

	taskStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	generator.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestSubmitSuccessorFailure(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	generator := &mocks.MockTaskGenerator{}

	first := lastTask()
	first.Name = domain.TaskNameFibonacci
	first.Answer = "5"
	taskStore.On("Get", mock.Anything, first.ID).Return(first, nil)
	generator.On("Generate", domain.TaskNameShortestWord).Return(&quiz.Quiz{
		Description: "What is the shortest word in array A?",
		Parameters:  domain.Parameters{{Name: "A", Value: []string{"Gaza"}}},
		Answer:      "Gaza",
	}, nil)
	taskStore.On("Put", mock.Anything, mock.Anything).Return(errors.New("read only"))

	emitter := &recordingEmitter{}
	svc, err := service.NewTaskService(taskStore, generator, emitter, nil)
	require.NoError(t, err)

	outcome, err := svc.Submit(context.Background(), first.ID, "5")
	assert.Nil(t, outcome)

	var svcErr *service.TaskServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "submit", svcErr.Operation)
	assert.Empty(t, emitter.events)
}

func TestSubmitIgnoresEmitterFailure(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	taskStore.On("Get", mock.Anything, "0000000f").Return(lastTask(), nil)

	emitter := &recordingEmitter{err: errors.New("handler exploded")}
	svc, err := service.NewTaskService(taskStore, &mocks.MockTaskGenerator{}, emitter, nil)
	require.NoError(t, err)

	outcome, err := svc.Submit(context.Background(), "0000000f", "Gaza")
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Len(t, emitter.events, 1)
}

func TestSubmitDoesNotLogAnswer(t *testing.T) {
	taskStore := &mocks.MockTaskStore{}
	taskStore.On("Get", mock.Anything, "0000000f").Return(lastTask(), nil)

	log, buf := logger.NewTestLogger(slog.LevelDebug)
	svc, err := service.NewTaskService(taskStore, &mocks.MockTaskGenerator{}, &recordingEmitter{}, log)
	require.NoError(t, err)

	ctx := logger.WithLogger(context.Background(), log)
	_, err = svc.Submit(ctx, "0000000f", "Gaza")
	require.NoError(t, err)

	assert.True(t, strings.Contains(buf.String(), "answer submitted"))
	assert.NotContains(t, buf.String(), "Gaza")
}
