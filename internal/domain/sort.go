package domain

import (
	"slices"
)

// DisplayLess reports whether a sorts before b in the task list: active tasks
// come before completed ones, and within the same state newer tasks come first.
func DisplayLess(a, b Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// SortForDisplay returns a copy of tasks in display order. The input slice is
// not modified. Ties keep their original relative order.
func SortForDisplay(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		switch {
		case DisplayLess(a, b):
			return -1
		case DisplayLess(b, a):
			return 1
		default:
			return 0
		}
	})
	return sorted
}
