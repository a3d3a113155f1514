// Package mocks provides hand-written test doubles for the application's
// ports. Each mock records its calls and lets a test replace behavior through
// Fn fields.
package mocks
