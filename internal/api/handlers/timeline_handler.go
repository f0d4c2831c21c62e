package handlers

import (
	"context"
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// TimelineService pages through a person's timeline.
type TimelineService interface {
	GetTimeline(ctx context.Context, q *models.TimelineQuery) ([]models.TimelineItem, error)
}

// TimelineHandler handles GET /v1/timeline.
type TimelineHandler struct {
	service TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(service TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// Get handles GET /v1/timeline
// @Summary Page through a person's notes or events
// @Tags Timeline
// @Produce json
// @Param personId query string true "Person ID (UUID)"
// @Param type query string true "notes or events"
// @Param page query int false "1-based page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {array} TimelineItem
// @Failure 404 {object} ProblemDetails "Person not found"
// @Security BearerAuth
// @Router /v1/timeline [get]
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	var q models.TimelineQuery
	if !decodeQuery(w, r, &q) {
		return
	}

	items, err := h.service.GetTimeline(r.Context(), &q)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, items)
}
