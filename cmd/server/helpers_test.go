package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/quizchain-api/internal/config"
	"github.com/phrazzld/quizchain-api/internal/platform/logger"
	"github.com/phrazzld/quizchain-api/internal/platform/migrations"
	"github.com/phrazzld/quizchain-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

const (
	testHost      = "quiz.test"
	testPrefix    = "d5d97fc3e3ed57ea"
	testFinalLink = "https://example.com/finished"
)

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testConfig returns a valid configuration backed by a SQLite file in a
// temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 2,
		},
		Database: config.DatabaseConfig{
			Driver:       migrations.DriverSQLite,
			URL:          filepath.Join(t.TempDir(), "quiz.db"),
			MaxOpenConns: 1,
		},
		Quiz: config.QuizConfig{
			TaskTTLSeconds: 30,
			LinkScheme:     "https",
			PathPrefix:     testPrefix,
			FinalLink:      testFinalLink,
		},
		Sweeper: config.SweeperConfig{
			Enabled:  true,
			Schedule: "@every 1h",
		},
	}
}

// testApp is an application wired to a migrated SQLite database.
type testApp struct {
	app    *application
	db     *sql.DB
	clock  *testClock
	router http.Handler
	logs   *logger.TestLogBuffer
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...appOption) *testApp {
	t.Helper()

	ctx := context.Background()
	log, buf := logger.NewTestLogger(slog.LevelDebug)

	db, err := sqlite.Open(ctx, cfg.Database.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrateDatabase(ctx, db, cfg.Database.Driver, log, "up"))

	clock := &testClock{now: time.Unix(1_700_000_000, 0).UTC()}
	app, err := newApplication(cfg, log, db, append([]appOption{withClock(clock.Now)}, opts...)...)
	require.NoError(t, err)

	return &testApp{
		app:    app,
		db:     db,
		clock:  clock,
		router: app.setupRouter(),
		logs:   buf,
	}
}

func (ta *testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Host = testHost

	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

// answerOf reads the canonical answer straight from the store.
func (ta *testApp) answerOf(t *testing.T, id string) string {
	t.Helper()

	var answer string
	err := ta.db.QueryRow("SELECT answer FROM tasks WHERE id = ?", id).Scan(&answer)
	require.NoError(t, err)
	return answer
}

// nameOf reads the task name straight from the store.
func (ta *testApp) nameOf(t *testing.T, id string) string {
	t.Helper()

	var name string
	err := ta.db.QueryRow("SELECT name FROM tasks WHERE id = ?", id).Scan(&name)
	require.NoError(t, err)
	return name
}

// taskIDFromLink extracts the task ID from an absolute task link.
func taskIDFromLink(t *testing.T, link string) string {
	t.Helper()

	base := "https://" + testHost + "/" + testPrefix + "/tasks/"
	require.True(t, strings.HasPrefix(link, base), "unexpected link %q", link)
	return strings.TrimPrefix(link, base)
}
