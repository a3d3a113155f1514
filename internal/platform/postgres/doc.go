// Package postgres provides a PostgreSQL implementation of store.Backend.
// Values live in a single kv_entries table whose schema is managed by the
// embedded goose migrations.
package postgres
