// Package sqlite provides the SQLite implementation of the customer store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single Store implements both
// driven.CustomerStore and driven.CustomerSeeder.
//
// # Schema
//
// Two tables, customers and tickets, are created by versioned migrations stored
// in the migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Applied versions are recorded in schema_migrations.
//
// The tickets.customer_id foreign key is declared but not enforced.
//
// # Timestamps
//
// created_at columns hold UTC text in a fixed-width layout so that ordering by
// the column is chronological.
//
// # Connections
//
// The database is opened once and limited to a single connection. Callers
// close it at shutdown.
package sqlite
