// Package postgres provides the PostgreSQL implementation of the task store
// defined in the internal/store package. It handles query execution, the
// expiry rule on reads, and mapping between domain tasks and table rows.
package postgres
