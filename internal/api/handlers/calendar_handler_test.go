package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

type mockCalendarService struct {
	connectFunc func(ctx context.Context, code, state string) (*models.CalendarConnectedResponse, error)
	syncFunc    func(ctx context.Context, req *models.CalendarSyncRequest) (*models.CalendarSyncResponse, error)
}

func (m *mockCalendarService) AuthURL() (*models.CalendarAuthURLResponse, error) {
	return nil, huberrors.NewConfigurationError("GOOGLE_CLIENT_ID", "Google Calendar is not configured")
}

func (m *mockCalendarService) Connect(ctx context.Context, code, state string) (*models.CalendarConnectedResponse, error) {
	return m.connectFunc(ctx, code, state)
}

func (m *mockCalendarService) Sync(ctx context.Context, req *models.CalendarSyncRequest) (*models.CalendarSyncResponse, error) {
	return m.syncFunc(ctx, req)
}

func TestCalendarHandler_AuthURL_NotConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCalendarHandler(&mockCalendarService{}).AuthURL(rec, httptest.NewRequest(http.MethodGet, "/v1/calendar/auth-url", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestCalendarHandler_Callback(t *testing.T) {
	t.Run("passes code and state", func(t *testing.T) {
		svc := &mockCalendarService{
			connectFunc: func(_ context.Context, code, state string) (*models.CalendarConnectedResponse, error) {
				assert.Equal(t, "4/abc", code)
				assert.Equal(t, "nonce.sig", state)

				return &models.CalendarConnectedResponse{Success: true, Account: "ada@example.com"}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendar/oauth/callback?code=4%2Fabc&state=nonce.sig", http.NoBody)
		NewCalendarHandler(svc).Callback(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"account":"ada@example.com"`)
	})

	t.Run("consent denied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendar/oauth/callback?error=access_denied", http.NoBody)
		NewCalendarHandler(&mockCalendarService{}).Callback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid state", func(t *testing.T) {
		svc := &mockCalendarService{
			connectFunc: func(context.Context, string, string) (*models.CalendarConnectedResponse, error) {
				return nil, huberrors.NewValidationError("state", "invalid or expired OAuth state")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendar/oauth/callback?code=x&state=forged", http.NoBody)
		NewCalendarHandler(svc).Callback(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCalendarHandler_Sync(t *testing.T) {
	t.Run("returns counts", func(t *testing.T) {
		svc := &mockCalendarService{
			syncFunc: func(_ context.Context, req *models.CalendarSyncRequest) (*models.CalendarSyncResponse, error) {
				assert.Equal(t, "ada@example.com", req.Account)
				assert.NotNil(t, req.Since)

				return &models.CalendarSyncResponse{Imported: 4, LinkedAttendees: 2}, nil
			},
		}

		rec := httptest.NewRecorder()
		body := `{"account":"ada@example.com","since":"2026-01-01T00:00:00Z"}`
		NewCalendarHandler(svc).Sync(rec, httptest.NewRequest(http.MethodPost, "/v1/calendar/sync", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"imported":4,"linkedAttendees":2}`, rec.Body.String())
	})

	t.Run("account required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewCalendarHandler(&mockCalendarService{}).Sync(rec, httptest.NewRequest(http.MethodPost, "/v1/calendar/sync", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
