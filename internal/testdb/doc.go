// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. Tests skip themselves when no database URL is set.
package testdb
