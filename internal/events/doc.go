// Package events carries task lifecycle notifications from the tracker to
// interested components without coupling them to each other.
//
// The tracker emits one TaskEvent per effective mutation. Handlers, such as the
// advisory scheduler, register with an EventEmitter and react to the events
// they care about.
package events
