// Package sqlite provides a SQLite-backed implementation of the task store.
// It is intended for local development and tests, where running PostgreSQL
// is inconvenient. The schema is shared with the PostgreSQL adapter and is
// applied through the migrations package.
package sqlite
