// Package api handles incoming HTTP requests, request validation and response
// formatting for the task tracker. Handlers translate HTTP concerns into
// tracker operations and map tracker errors to status codes without leaking
// internal details.
package api
