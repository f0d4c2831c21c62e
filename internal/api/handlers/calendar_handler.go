package handlers

import (
	"context"
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

// CalendarService connects and syncs Google calendars.
type CalendarService interface {
	AuthURL() (*models.CalendarAuthURLResponse, error)
	Connect(ctx context.Context, code, state string) (*models.CalendarConnectedResponse, error)
	Sync(ctx context.Context, req *models.CalendarSyncRequest) (*models.CalendarSyncResponse, error)
}

// CalendarHandler handles the Google Calendar OAuth flow and event import.
type CalendarHandler struct {
	service CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// AuthURL handles GET /v1/calendar/auth-url
// @Summary Google consent URL
// @Tags Calendar
// @Produce json
// @Success 200 {object} CalendarAuthURLResponse
// @Failure 500 {object} ProblemDetails "Calendar not configured"
// @Security BearerAuth
// @Router /v1/calendar/auth-url [get]
func (h *CalendarHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.AuthURL()
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Callback handles GET /calendar/oauth/callback
// @Summary OAuth redirect target
// @Tags Calendar
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} CalendarConnectedResponse
// @Failure 400 {object} ProblemDetails "Invalid state"
// @Router /calendar/oauth/callback [get]
func (h *CalendarHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if oauthErr := query.Get("error"); oauthErr != "" {
		response.RespondBadRequest(w, "Authorization was not granted: "+oauthErr)
		return
	}

	resp, err := h.service.Connect(r.Context(), query.Get("code"), query.Get("state"))
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// Sync handles POST /v1/calendar/sync
// @Summary Import events from a connected calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Param request body CalendarSyncRequest true "Account and optional window"
// @Success 200 {object} CalendarSyncResponse
// @Failure 404 {object} ProblemDetails "Account not connected"
// @Security BearerAuth
// @Router /v1/calendar/sync [post]
func (h *CalendarHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req models.CalendarSyncRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Sync(r.Context(), &req)
	if err != nil {
		response.RespondServiceError(r.Context(), w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
