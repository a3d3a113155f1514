package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/traffic-tasker/internal/domain"
)

// Resolve finds a task by reference. A reference is either a 1-based
// position in the displayed list or a prefix of the task id. Positions win
// over id prefixes made only of digits.
func (t *Tracker) Resolve(ref string) (domain.Task, int, error) {
	return ResolveRef(t.Tasks(), ref)
}

// ResolveRef is Resolve over an explicit list in display order. The returned
// position is 1-based.
func ResolveRef(tasks []domain.Task, ref string) (domain.Task, int, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return domain.Task{}, 0, fmt.Errorf("%w: empty reference", ErrTaskNotFound)
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], n, nil
	}

	found := -1
	for i, task := range tasks {
		if !strings.HasPrefix(task.ID.String(), ref) {
			continue
		}
		if found >= 0 {
			return domain.Task{}, 0, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
		}
		found = i
	}
	if found < 0 {
		return domain.Task{}, 0, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	}
	return tasks[found], found + 1, nil
}
