package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/traffic-tasker/internal/api/shared"
	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that adds a trace ID to the request
// context together with a logger carrying that ID and the chi request ID.
// Apply it early so every later handler can log with the trace ID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			attrs := []any{slog.String("trace_id", traceID)}
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				attrs = append(attrs, slog.String("request_id", reqID))
				ctx = logger.WithRequestID(ctx, reqID)
			}
			log := base.With(attrs...)
			ctx = logger.WithLogger(ctx, log)

			log.DebugContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set("X-Trace-ID", traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
