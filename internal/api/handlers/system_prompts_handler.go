package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// PromptsService reads and writes system prompts.
type PromptsService interface {
	GetPrompt(ctx context.Context, key string) (*models.SystemPrompt, error)
	ListPrompts(ctx context.Context) ([]models.SystemPrompt, error)
	UpsertPrompt(ctx context.Context, key string, req *models.UpsertSystemPromptRequest) (*models.SystemPrompt, error)
}

// SystemPromptsHandler handles HTTP requests for system prompts
type SystemPromptsHandler struct {
	service PromptsService
}

// NewSystemPromptsHandler creates a new system prompts handler
func NewSystemPromptsHandler(service PromptsService) *SystemPromptsHandler {
	return &SystemPromptsHandler{service: service}
}

// List handles GET /v1/system-prompts
func (h *SystemPromptsHandler) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.service.ListPrompts(r.Context())
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, prompts)
}

// Get handles GET /v1/system-prompts/{key}
func (h *SystemPromptsHandler) Get(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.service.GetPrompt(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, prompt)
}

// Put handles PUT /v1/system-prompts/{key}
func (h *SystemPromptsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertSystemPromptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prompt, err := h.service.UpsertPrompt(r.Context(), chi.URLParam(r, "key"), &req)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, prompt)
}
