package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/traffic-tasker/internal/api/shared"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/phrazzld/traffic-tasker/internal/tracker"
)

// TaskService is the subset of *tracker.Tracker the HTTP handlers use.
type TaskService interface {
	CreateTask(ctx context.Context, title, description string) (tracker.CreateResult, error)
	Toggle(ctx context.Context, id uuid.UUID) (domain.Task, error)
	SetPriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) bool
	Reclassify(ctx context.Context, id uuid.UUID) (tracker.CreateResult, error)
	Tasks() []domain.Task
	Task(id uuid.UUID) (domain.Task, bool)
	Busy() bool
	Advisory() (tracker.AdvisoryState, bool)
	RefreshAdvisory(ctx context.Context) (tracker.AdvisoryState, bool)
}

var _ TaskService = (*tracker.Tracker)(nil)

// TaskHandler handles task and advisory HTTP requests.
type TaskHandler struct {
	tasks  TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

func (h *TaskHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: toTaskResponses(h.tasks.Tasks()),
		Busy:  h.tasks.Busy(),
	})
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, ErrInvalidRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.tasks.CreateTask(r.Context(), req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.log(r).InfoContext(r.Context(), "task created via API",
		"task_id", res.Task.ID,
		"priority", res.Task.Priority)

	shared.RespondWithJSON(w, r, http.StatusCreated, ClassifiedTaskResponse{
		Task:           toTaskResponse(res.Task),
		Classification: res.Classification,
	})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, ok := h.tasks.Task(id)
	if !ok {
		HandleAPIError(w, r, tracker.ErrTaskNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponse(task))
}

// ToggleTask handles POST /api/tasks/{id}/toggle.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.Toggle(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponse(task))
}

// SetPriority handles PUT /api/tasks/{id}/priority.
func (h *TaskHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SetPriorityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, ErrInvalidRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.SetPriority(r.Context(), id, priority)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toTaskResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}. Deleting an unknown id succeeds.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.tasks.Delete(r.Context(), id) {
		h.log(r).DebugContext(r.Context(), "delete of unknown task", "task_id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClassifyTask handles POST /api/tasks/{id}/classify.
func (h *TaskHandler) ClassifyTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.tasks.Reclassify(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ClassifiedTaskResponse{
		Task:           toTaskResponse(res.Task),
		Classification: res.Classification,
	})
}

// GetAdvisory handles GET /api/advisory.
func (h *TaskHandler) GetAdvisory(w http.ResponseWriter, r *http.Request) {
	state, ok := h.tasks.Advisory()
	shared.RespondWithJSON(w, r, http.StatusOK, toAdvisoryResponse(state, ok))
}

// RefreshAdvisory handles POST /api/advisory/refresh.
func (h *TaskHandler) RefreshAdvisory(w http.ResponseWriter, r *http.Request) {
	state, ok := h.tasks.RefreshAdvisory(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, toAdvisoryResponse(state, ok))
}

func toAdvisoryResponse(state tracker.AdvisoryState, ok bool) AdvisoryResponse {
	if !ok {
		return AdvisoryResponse{}
	}
	updated := state.UpdatedAt
	return AdvisoryResponse{
		Available:  true,
		Text:       state.Text,
		Outcome:    state.Outcome,
		Generation: state.Generation,
		UpdatedAt:  &updated,
	}
}
