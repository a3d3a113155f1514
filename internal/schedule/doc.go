// Package schedule provides a cancellable, generation-keyed debouncer used to
// delay work until a burst of triggers has settled.
package schedule
