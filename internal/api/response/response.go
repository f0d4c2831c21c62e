package response

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/networkbrain/brain/internal/huberrors"
)

// ErrorDetail represents a single error detail in RFC 7807 Problem Details
type ErrorDetail struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// ProblemDetails represents an RFC 7807 Problem Details error response
type ProblemDetails struct {
	Type     string        `json:"type,omitempty"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, statusCode int, title string, detail string) {
	RespondProblem(w, ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: statusCode,
		Detail: detail,
	})
}

// RespondProblem writes a fully populated problem document.
func RespondProblem(w http.ResponseWriter, problem ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// RespondBadRequest writes a 400 Bad Request error response
func RespondBadRequest(w http.ResponseWriter, detail string) {
	RespondError(w, http.StatusBadRequest, "Bad Request", detail)
}

// RespondUnauthorized writes a 401 Unauthorized error response
func RespondUnauthorized(w http.ResponseWriter, detail string) {
	RespondError(w, http.StatusUnauthorized, "Unauthorized", detail)
}

// RespondNotFound writes a 404 Not Found error response
func RespondNotFound(w http.ResponseWriter, detail string) {
	RespondError(w, http.StatusNotFound, "Not Found", detail)
}

// RespondInternalServerError writes a 500 Internal Server Error response
func RespondInternalServerError(w http.ResponseWriter, detail string) {
	RespondError(w, http.StatusInternalServerError, "Internal Server Error", detail)
}

// RespondServiceError maps a service error to its problem response:
// validation 400, not found and precondition 404, everything else 500.
// Upstream and configuration messages are passed through; unknown errors are not.
func RespondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *huberrors.ValidationError

	switch {
	case errors.As(err, &validationErr):
		problem := ProblemDetails{
			Type:   "about:blank",
			Title:  "Validation Error",
			Status: http.StatusBadRequest,
			Detail: validationErr.Error(),
		}
		if validationErr.Field != "" {
			problem.Errors = []ErrorDetail{{Location: validationErr.Field, Message: validationErr.Error()}}
		}

		RespondProblem(w, problem)
	case errors.Is(err, huberrors.ErrNotFound), errors.Is(err, huberrors.ErrPrecondition):
		RespondNotFound(w, err.Error())
	case errors.Is(err, huberrors.ErrConfiguration):
		slog.ErrorContext(ctx, "service not configured", "error", err)
		RespondInternalServerError(w, err.Error())
	case errors.Is(err, huberrors.ErrUpstream):
		slog.ErrorContext(ctx, "upstream failure", "error", err)
		RespondInternalServerError(w, err.Error())
	default:
		slog.ErrorContext(ctx, "unexpected error", "error", err)
		RespondInternalServerError(w, "An unexpected error occurred")
	}
}

// RespondJSON writes a JSON response directly without wrapping
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
