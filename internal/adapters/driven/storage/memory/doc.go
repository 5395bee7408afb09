// Package memory provides in-memory implementations of storage ports.
//
// These are used for tests and for running the customer agent without a
// database file.
package memory
