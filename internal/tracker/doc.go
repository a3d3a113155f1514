// Package tracker orchestrates the task list: it turns user actions into store
// mutations, asks the classifier for a priority when a task is created and
// keeps a debounced productivity advisory up to date as the list grows and
// shrinks.
//
// A Tracker is safe for concurrent use. Only one classification on create may
// be in flight at a time; a concurrent CreateTask fails fast with ErrBusy.
package tracker
