package api

import (
	"net/http"

	"github.com/phrazzld/traffic-tasker/internal/api/shared"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Tasks   int    `json:"tasks"`
}

// NewHealthHandler reports liveness along with the task count.
func NewHealthHandler(version string, tasks TaskService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			Tasks:   len(tasks.Tasks()),
		})
	}
}
