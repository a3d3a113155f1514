// Package middleware provides the HTTP middleware specific to the task API:
// per-request trace IDs with a request-scoped logger, and optional bearer
// token authentication.
package middleware
