// Package output renders tasks and advisories for the terminal, either as
// colored traffic lights or as JSON or YAML documents.
package output
