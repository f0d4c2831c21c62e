package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// IntroductionsService generates and manages introductions.
type IntroductionsService interface {
	Generate(ctx context.Context, personID uuid.UUID) (*models.GenerateIntroductionsResponse, error)
	ListIntroductions(ctx context.Context, filters *models.ListIntroductionsFilters) ([]models.Introduction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateIntroductionRequest) (*models.Introduction, error)
}

// IntroductionsHandler handles HTTP requests for introductions
type IntroductionsHandler struct {
	service IntroductionsService
}

// NewIntroductionsHandler creates a new introductions handler
func NewIntroductionsHandler(service IntroductionsService) *IntroductionsHandler {
	return &IntroductionsHandler{service: service}
}

// Generate handles POST /v1/introductions/generate
// @Summary Suggest introductions for a person
// @Description Finds people with similar embeddings and stores one introduction per match
// @Tags Introductions
// @Accept json
// @Produce json
// @Param request body GenerateIntroductionsRequest true "Source person"
// @Success 200 {object} GenerateIntroductionsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails "Person or source embedding not found"
// @Security BearerAuth
// @Router /v1/introductions/generate [post]
func (h *IntroductionsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateIntroductionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Generate(r.Context(), req.PersonID)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// List handles GET /v1/introductions
// @Summary List a person's introductions
// @Tags Introductions
// @Produce json
// @Param personId query string true "Person ID (UUID)"
// @Param status query string false "Filter by status"
// @Param limit query int false "Number of results to return (max 100)"
// @Param offset query int false "Number of results to skip"
// @Success 200 {array} Introduction
// @Security BearerAuth
// @Router /v1/introductions [get]
func (h *IntroductionsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filters models.ListIntroductionsFilters
	if !decodeQuery(w, r, &filters) {
		return
	}

	intros, err := h.service.ListIntroductions(r.Context(), &filters)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, intros)
}

// Update handles PATCH /v1/introductions/{id}
// @Summary Change an introduction's status
// @Tags Introductions
// @Accept json
// @Produce json
// @Param id path string true "Introduction ID (UUID)"
// @Param request body UpdateIntroductionRequest true "New status"
// @Success 200 {object} Introduction
// @Failure 404 {object} ProblemDetails "Introduction not found"
// @Security BearerAuth
// @Router /v1/introductions/{id} [patch]
func (h *IntroductionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateIntroductionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	intro, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, intro)
}
