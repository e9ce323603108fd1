// Package migrations embeds the SQL schema of the task table and applies it
// with goose. The same migration files serve PostgreSQL and SQLite.
package migrations
