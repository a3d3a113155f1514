package api

import (
	"time"

	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/generation"
)

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
}

// SetPriorityRequest is the body of PUT /api/tasks/{id}/priority. Priority
// accepts a tier (high, standard, low) or a light (red, yellow, green).
type SetPriorityRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// TaskResponse is a task together with its traffic light.
type TaskResponse struct {
	domain.Task
	Light domain.Light `json:"light"`
}

// TaskListResponse is the body of GET /api/tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Busy  bool           `json:"busy"`
}

// ClassifiedTaskResponse is returned by create and reclassify.
type ClassifiedTaskResponse struct {
	Task           TaskResponse              `json:"task"`
	Classification generation.Classification `json:"classification"`
}

// AdvisoryResponse is the body of the advisory endpoints. Available is false
// while the list is empty or no advisory has been produced yet.
type AdvisoryResponse struct {
	Available  bool               `json:"available"`
	Text       string             `json:"text,omitempty"`
	Outcome    generation.Outcome `json:"outcome,omitempty"`
	Generation uint64             `json:"generation,omitempty"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}

func toTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{Task: t, Light: t.Priority.Light()}
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
