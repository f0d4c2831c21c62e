package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// PeopleService reads and deletes people and adds notes.
type PeopleService interface {
	GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error)
	DeletePerson(ctx context.Context, id uuid.UUID) error
	AddNote(ctx context.Context, personID uuid.UUID, req *models.CreateNoteRequest) (*models.Note, error)
}

// PeopleHandler handles HTTP requests for people
type PeopleHandler struct {
	service PeopleService
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(service PeopleService) *PeopleHandler {
	return &PeopleHandler{service: service}
}

// Get handles GET /v1/people/{id}
// @Summary Get a person by ID
// @Tags People
// @Produce json
// @Param id path string true "Person ID (UUID)"
// @Success 200 {object} Person
// @Failure 404 {object} ProblemDetails "Person not found"
// @Security BearerAuth
// @Router /v1/people/{id} [get]
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	person, err := h.service.GetPerson(r.Context(), id)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, person)
}

// Delete handles DELETE /v1/people/{id}
// @Summary Soft-delete a person
// @Tags People
// @Param id path string true "Person ID (UUID)"
// @Success 204
// @Failure 404 {object} ProblemDetails "Person not found"
// @Security BearerAuth
// @Router /v1/people/{id} [delete]
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePerson(r.Context(), id); err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddNote handles POST /v1/people/{id}/notes
// @Summary Add a manual note
// @Tags People
// @Accept json
// @Produce json
// @Param id path string true "Person ID (UUID)"
// @Param request body CreateNoteRequest true "Note content"
// @Success 201 {object} Note
// @Failure 404 {object} ProblemDetails "Person not found"
// @Security BearerAuth
// @Router /v1/people/{id}/notes [post]
func (h *PeopleHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.service.AddNote(r.Context(), id, &req)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, note)
}
