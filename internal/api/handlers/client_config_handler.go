package handlers

import (
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// ClientConfigHandler serves the values the browser UI needs at startup.
type ClientConfigHandler struct {
	config models.ClientConfigResponse
}

// NewClientConfigHandler creates a handler that always returns cfg.
func NewClientConfigHandler(cfg models.ClientConfigResponse) *ClientConfigHandler {
	return &ClientConfigHandler{config: cfg}
}

// Get handles GET /v1/client-config
func (h *ClientConfigHandler) Get(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.config)
}
