package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/traffic-tasker/internal/api/shared"
	"github.com/phrazzld/traffic-tasker/internal/domain"
	"github.com/phrazzld/traffic-tasker/internal/service/auth"
	"github.com/phrazzld/traffic-tasker/internal/tracker"
)

// Request-level errors raised by the handlers themselves.
var (
	ErrInvalidID      = errors.New("invalid task id")
	ErrInvalidRequest = errors.New("invalid request body")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so internal
// error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, tracker.ErrTaskNotFound),
		errors.Is(err, tracker.ErrTaskGone):
		return http.StatusNotFound

	case errors.Is(err, tracker.ErrBusy):
		return http.StatusConflict

	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, tracker.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, tracker.ErrTaskGone):
		return "Task was deleted before classification finished"
	case errors.Is(err, tracker.ErrBusy):
		return "Another task is being classified, try again shortly"
	case errors.Is(err, domain.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "Priority must be one of high, standard, low (or red, yellow, green)"
	case errors.Is(err, ErrInvalidID):
		return "Invalid task ID"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request format"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into "Invalid <field>: <reason>".
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
