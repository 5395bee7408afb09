// Package postgres provides a Postgres implementation of the customer store
// built on the bun query builder.
//
// It is selected when SUPPORTDESK_DB_URL holds a postgres:// URL. The tables
// match the SQLite schema and are created on open if missing.
package postgres
