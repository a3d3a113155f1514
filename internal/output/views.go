package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
)

// ShortIDLength is the number of id characters shown in text output.
const ShortIDLength = 8

// TaskView is the serialized form of a task in list output. Index is the
// 1-based position accepted by commands that take a task reference.
type TaskView struct {
	Index       int             `json:"index"       yaml:"index"`
	ID          string          `json:"id"          yaml:"id"`
	Title       string          `json:"title"       yaml:"title"`
	Description string          `json:"description" yaml:"description,omitempty"`
	Priority    domain.Priority `json:"priority"    yaml:"priority"`
	Light       domain.Light    `json:"light"       yaml:"light"`
	Completed   bool            `json:"completed"   yaml:"completed"`
	CreatedAt   time.Time       `json:"createdAt"   yaml:"createdAt"`
}

// AdvisoryView is the serialized form of an advisory.
type AdvisoryView struct {
	Text    string             `json:"text"             yaml:"text"`
	Outcome generation.Outcome `json:"outcome"          yaml:"outcome"`
	Reason  string             `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// NewTaskView converts a task at the given 1-based position.
func NewTaskView(index int, t domain.Task) TaskView {
	return TaskView{
		Index:       index,
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Light:       t.Priority.Light(),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

// NewTaskViews converts tasks in order, numbering from 1.
func NewTaskViews(tasks []domain.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for i, t := range tasks {
		views = append(views, NewTaskView(i+1, t))
	}
	return views
}

// NewAdvisoryView converts an advisory.
func NewAdvisoryView(a generation.Advisory) AdvisoryView {
	return AdvisoryView{Text: a.Text, Outcome: a.Outcome, Reason: a.Reason}
}

// ShortID returns the leading characters of id used in text output.
func ShortID(id uuid.UUID) string {
	return id.String()[:ShortIDLength]
}
