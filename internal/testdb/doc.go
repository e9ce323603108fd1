// Package testdb provides database fixtures for tests.
//
// SQLite fixtures are always available: OpenSQLite returns a migrated
// database in a temporary directory. PostgreSQL fixtures need DATABASE_URL;
// tests skip when it is unset.
//
// WithTx implements the transaction isolation pattern: the callback runs in a
// transaction that is always rolled back, so tests never see each other's
// data and need no cleanup.
//
//	func TestMyStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
