package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/api/validation"
	"github.com/networkbrain/brain/internal/models"
)

// ApplicationsService ingests application webhooks.
type ApplicationsService interface {
	VerifySignature(ctx context.Context, body []byte, headers http.Header) error
	RecordOutcome(ctx context.Context, outcome string)
	Ingest(ctx context.Context, p *models.ApplicationWebhookPayload) (*models.ApplicationWebhookResponse, error)
}

// ApplicationsHandler handles POST /webhooks/applications.
type ApplicationsHandler struct {
	service ApplicationsService
}

// NewApplicationsHandler creates a new application webhook handler
func NewApplicationsHandler(service ApplicationsService) *ApplicationsHandler {
	return &ApplicationsHandler{service: service}
}

// Receive handles POST /webhooks/applications
// @Summary Receive a community application
// @Description Upserts the applicant by email and marks them as applied to the community.
// @Description When a signing secret is configured the Standard Webhooks headers are required.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body ApplicationWebhookPayload true "Application (contract v1)"
// @Success 200 {object} ApplicationWebhookResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails "Invalid signature"
// @Router /webhooks/applications [post]
func (h *ApplicationsHandler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.RespondBadRequest(w, "Failed to read request body")
		return
	}

	if err := h.service.VerifySignature(ctx, body, r.Header); err != nil {
		slog.WarnContext(ctx, "application webhook rejected", "error", err)
		response.RespondUnauthorized(w, "Invalid webhook signature")
		return
	}

	var payload models.ApplicationWebhookPayload
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		h.service.RecordOutcome(ctx, "invalid_payload")
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if err := validation.ValidateStruct(&payload); err != nil {
		h.service.RecordOutcome(ctx, "invalid_payload")
		validation.RespondValidationError(w, err)
		return
	}

	resp, err := h.service.Ingest(ctx, &payload)
	if err != nil {
		response.RespondServiceError(ctx, w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
