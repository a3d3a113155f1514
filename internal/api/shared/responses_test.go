package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/traffic-tasker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracedRequest(t *testing.T) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	l, buf := logger.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
	ctx = logger.WithLogger(ctx, l)
	return httptest.NewRequest(http.MethodGet, "/api/tasks", nil).WithContext(ctx), buf
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"title": "Fix outage"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"title":"Fix outage"}`, w.Body.String())
}

func TestRespondWithJSON_EncodingError(t *testing.T) {
	req, buf := newTracedRequest(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	logger.AssertLogContains(t, buf, "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	req, _ := newTracedRequest(t)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request", resp.Error)
	assert.Equal(t, "test-trace-id", resp.TraceID)
}

func TestRespondWithError_NoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{name: "server_error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "client_error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "client_error_elevated", status: http.StatusConflict, elevate: true, wantLevel: "WARN"},
		{name: "rate_limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, buf := newTracedRequest(t)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.status, "Safe message",
				errors.New("postgres://admin:hunter2@db/tasks refused"), opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "hunter2")

			entry, ok := buf.FindEntry("API error response")
			require.True(t, ok)
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, "test-trace-id", entry["trace_id"])
			assert.NotContains(t, entry["error"], "hunter2")
			assert.Equal(t, "*errors.errorString", entry["error_type"])
		})
	}
}
