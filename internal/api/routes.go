package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterTaskRoutes mounts the task and advisory endpoints on r. Callers add
// authentication with r.Use before calling this.
func RegisterTaskRoutes(r chi.Router, h *TaskHandler) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Delete("/", h.DeleteTask)
			r.Post("/toggle", h.ToggleTask)
			r.Put("/priority", h.SetPriority)
			r.Post("/classify", h.ClassifyTask)
		})
	})

	r.Get("/advisory", h.GetAdvisory)
	r.Post("/advisory/refresh", h.RefreshAdvisory)
}
