// Package domain contains the core business entities of the tracker: the Task
// record, its priority tiers, and the display ordering of a task list. It is
// independent of any storage backend, classifier, or delivery mechanism.
package domain
