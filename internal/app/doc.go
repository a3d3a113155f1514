// Package app assembles the task tracker from configuration: the storage
// backend, the classifier and the tracker itself. The server, the CLI and
// the MCP server all start from New.
package app
