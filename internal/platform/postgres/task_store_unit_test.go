package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/quizchain-api/internal/domain"
	"github.com/phrazzld/quizchain-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDBTX records ExecContext calls. QueryRowContext is exercised by the
// integration tests because *sql.Row cannot be constructed outside database/sql.
type mockDBTX struct {
	query  string
	args   []any
	result sql.Result
	err    error
}

func (m *mockDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	m.query = query
	m.args = args
	return m.result, m.err
}

func (m *mockDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

type mockResult struct {
	rows int64
}

func (r mockResult) LastInsertId() (int64, error) { return 0, nil }
func (r mockResult) RowsAffected() (int64, error) { return r.rows, nil }

func newTestTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(
		"deadbeef",
		domain.TaskNameSum,
		"What is the sum of a and b?",
		domain.Parameters{{Name: "a", Value: int64(1)}, {Name: "b", Value: int64(2)}},
		"3",
		time.Unix(1_700_000_000, 0),
		30*time.Second,
	)
	require.NoError(t, err)
	return task
}

func TestNewPostgresTaskStore(t *testing.T) {
	assert.Panics(t, func() { NewPostgresTaskStore(nil, nil) })

	db := &mockDBTX{}
	s := NewPostgresTaskStore(db, nil)
	assert.Equal(t, db, s.db)
	assert.NotNil(t, s.logger)
	assert.NotNil(t, s.now)

	fixed := time.Unix(42, 0)
	clocked := s.WithClock(func() time.Time { return fixed })
	assert.Equal(t, fixed, clocked.now())
	assert.NotSame(t, s, clocked)
}

func TestPostgresTaskStore_Put(t *testing.T) {
	t.Run("writes the flattened record", func(t *testing.T) {
		db := &mockDBTX{result: mockResult{rows: 1}}
		s := NewPostgresTaskStore(db, nil)

		require.NoError(t, s.Put(context.Background(), newTestTask(t)))

		assert.Contains(t, db.query, "ON CONFLICT (id) DO UPDATE")
		assert.Equal(t, []any{
			"deadbeef",
			int64(1_700_000_030),
			"simple_task",
			"What is the sum of a and b?",
			`{"a":1,"b":2}`,
			"3",
		}, db.args)
	})

	t.Run("rejects invalid tasks before touching the database", func(t *testing.T) {
		db := &mockDBTX{}
		s := NewPostgresTaskStore(db, nil)

		err := s.Put(context.Background(), &domain.Task{ID: "x"})
		assert.True(t, errors.Is(err, domain.ErrInvalidTaskName))
		assert.Empty(t, db.query)
	})

	t.Run("wraps database failures", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		s := NewPostgresTaskStore(&mockDBTX{err: dbErr}, nil)

		err := s.Put(context.Background(), newTestTask(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbErr))

		var storeErr *store.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "put", storeErr.Operation)
	})
}

func TestPostgresTaskStore_DeleteExpired(t *testing.T) {
	db := &mockDBTX{result: mockResult{rows: 7}}
	s := NewPostgresTaskStore(db, nil)

	removed, err := s.DeleteExpired(context.Background(), time.Unix(1_700_000_000, 999))
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.Equal(t, []any{int64(1_700_000_000)}, db.args)

	failing := NewPostgresTaskStore(&mockDBTX{err: errors.New("boom")}, nil)
	_, err = failing.DeleteExpired(context.Background(), time.Now())
	assert.Error(t, err)
}
