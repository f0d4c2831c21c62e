package handlers

import (
	"context"
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// EnrichmentService runs profile enrichment.
type EnrichmentService interface {
	Enrich(ctx context.Context, req *models.EnrichmentRequest) (*models.EnrichmentResponse, error)
}

// EnrichmentHandler handles POST /v1/enrichment.
type EnrichmentHandler struct {
	service EnrichmentService
}

// NewEnrichmentHandler creates a new enrichment handler
func NewEnrichmentHandler(service EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{service: service}
}

// Enrich handles POST /v1/enrichment
// @Summary Enrich a person's profile
// @Description Optionally pulls LinkedIn data, asks the LLM for a structured profile and stores the result
// @Tags Enrichment
// @Accept json
// @Produce json
// @Param request body EnrichmentRequest true "Person and optional prompt key"
// @Success 200 {object} EnrichmentResponse
// @Failure 400 {object} ProblemDetails "Invalid input or LLM output missing required fields"
// @Failure 404 {object} ProblemDetails "Person or prompt not found"
// @Failure 500 {object} ProblemDetails
// @Security BearerAuth
// @Router /v1/enrichment [post]
func (h *EnrichmentHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req models.EnrichmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Enrich(r.Context(), &req)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
