package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/api/validation"
)

// decodeJSON decodes and validates a JSON body. On failure it writes the 400 response and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			// MaxBody middleware replaces this with a 413.
			response.RespondBadRequest(w, "Request body too large")
			return false
		}

		response.RespondBadRequest(w, "Invalid request body")
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		validation.RespondValidationError(w, err)
		return false
	}

	return true
}

// decodeQuery decodes and validates query parameters, writing the 400 response on failure.
func decodeQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := validation.DecodeQueryParams(r, dst); err != nil {
		response.RespondBadRequest(w, err.Error())
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		validation.RespondValidationError(w, err)
		return false
	}

	return true
}

// pathUUID parses the named chi URL parameter as a UUID, writing the 400 response on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		response.RespondBadRequest(w, name+" is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondBadRequest(w, "Invalid UUID format")
		return uuid.Nil, false
	}

	return id, true
}
