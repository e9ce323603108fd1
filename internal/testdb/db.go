package testdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/quizchain-api/internal/platform/migrations"
	"github.com/phrazzld/quizchain-api/internal/platform/sqlite"
	"github.com/phrazzld/quizchain-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL names the variable holding the PostgreSQL test database URL.
const EnvDatabaseURL = "DATABASE_URL"

const setupTimeout = 10 * time.Second

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests, or
// an empty string if none is configured.
func GetTestDatabaseURL() string {
	return strings.TrimSpace(os.Getenv(EnvDatabaseURL))
}

// ShouldSkipDatabaseTest reports whether PostgreSQL tests must be skipped.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT connects to the PostgreSQL test database and applies all
// migrations. The test is skipped when no database is configured and the
// connection is closed on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip(EnvDatabaseURL + " not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open %s", maskDatabaseURL(dbURL))
	t.Cleanup(func() { CleanupDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	require.NoError(t, db.PingContext(ctx), "failed to reach %s", maskDatabaseURL(dbURL))
	migrate(t, ctx, db, migrations.DriverPostgres)

	return db
}

// OpenSQLite returns a migrated SQLite database stored in a temporary
// directory. The connection is closed on cleanup.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db := OpenEmptySQLite(t)

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()
	migrate(t, ctx, db, migrations.DriverSQLite)

	return db
}

// OpenEmptySQLite returns a SQLite database without any schema.
func OpenEmptySQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { CleanupDB(t, db) })

	return db
}

// CleanupDB closes db, logging rather than failing on error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := db.Close(); err != nil {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}

func migrate(t *testing.T, ctx context.Context, db *sql.DB, driver string) {
	t.Helper()

	migrator, err := migrations.New(db, driver, nil)
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx), "failed to apply %s migrations", driver)
}

// maskDatabaseURL hides credentials in a database URL for test output.
func maskDatabaseURL(dbURL string) string {
	return redact.String(dbURL)
}
