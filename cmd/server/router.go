package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/traffic-tasker/internal/api"
	apiMiddleware "github.com/phrazzld/traffic-tasker/internal/api/middleware"
	"github.com/phrazzld/traffic-tasker/internal/app"
	"github.com/phrazzld/traffic-tasker/internal/service/auth"
	"github.com/rs/cors"
)

// newRouter creates the application router with all routes and middleware.
// The /api routes require a bearer token when auth.jwt_secret is set.
func newRouter(a *app.App, logger *slog.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: a.Config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Trace-ID"},
	}).Handler)

	taskHandler := api.NewTaskHandler(a.Tracker, logger)

	var authMiddleware *apiMiddleware.AuthMiddleware
	if a.Config.Auth.Enabled() {
		jwtService, err := auth.NewJWTService(a.Config.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		authMiddleware = apiMiddleware.NewAuthMiddleware(jwtService)
		logger.Info("API authentication enabled",
			"token_lifetime_minutes", a.Config.Auth.TokenLifetimeMinutes)
	} else {
		logger.Warn("auth.jwt_secret not set, API is unauthenticated")
	}

	r.Route("/api", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware.Authenticate)
		}
		api.RegisterTaskRoutes(r, taskHandler)
	})

	r.Get("/health", api.NewHealthHandler(version, a.Tracker))

	return r, nil
}
