package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// EmbeddingService generates person embeddings.
type EmbeddingService interface {
	GenerateForPerson(ctx context.Context, personID uuid.UUID, additionalContext string) (*models.EmbeddingMetadata, error)
	GenerateMissing(ctx context.Context, query *models.BatchEmbeddingQuery) (*models.BatchEmbeddingResponse, error)
}

// EmbeddingsHandler handles the single and batch embedding endpoints.
type EmbeddingsHandler struct {
	service EmbeddingService
}

// NewEmbeddingsHandler creates a new embeddings handler
func NewEmbeddingsHandler(service EmbeddingService) *EmbeddingsHandler {
	return &EmbeddingsHandler{service: service}
}

// Generate handles POST /v1/embeddings
// @Summary Embed one person's profile
// @Tags Embeddings
// @Accept json
// @Produce json
// @Param request body GenerateEmbeddingRequest true "Person and optional extra context"
// @Success 200 {object} GenerateEmbeddingResponse
// @Failure 404 {object} ProblemDetails "Person not found"
// @Security BearerAuth
// @Router /v1/embeddings [post]
func (h *EmbeddingsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateEmbeddingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	meta, err := h.service.GenerateForPerson(r.Context(), req.PersonID, req.AdditionalContext)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, models.GenerateEmbeddingResponse{Success: true, Metadata: meta})
}

// Batch handles GET /v1/embeddings
// @Summary Embed people that have no embedding yet
// @Description Processes one page concurrently; per-person failures are reported in the results
// @Tags Embeddings
// @Produce json
// @Param limit query int false "Page size (default 10, max 500)"
// @Param offset query int false "Number of people to skip"
// @Success 200 {object} BatchEmbeddingResponse
// @Security BearerAuth
// @Router /v1/embeddings [get]
func (h *EmbeddingsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var query models.BatchEmbeddingQuery
	if !decodeQuery(w, r, &query) {
		return
	}

	resp, err := h.service.GenerateMissing(r.Context(), &query)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
