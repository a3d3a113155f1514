// Package store holds the task collection and the key/value Backend it is
// persisted through.
//
// The whole collection is kept in memory and written back to a single key as
// a JSON array after every mutation. Backends only need to read and write
// opaque blobs, so the same TaskStore runs against an in-memory map, a local
// file or a Postgres table.
package store
