package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/networkbrain/brain/internal/gcal"
	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

// CalendarAPI is the Google Calendar client (gcal.Client in production).
type CalendarAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	PrimaryCalendarID(ctx context.Context, token *oauth2.Token) (string, error)
	ListEvents(ctx context.Context, token *oauth2.Token, opts gcal.ListOptions) ([]models.UpsertEventInput, *oauth2.Token, error)
}

// OAuthState issues and checks OAuth state values.
type OAuthState interface {
	New() (string, error)
	Verify(state string) bool
}

// CalendarConnectionsRepository stores one OAuth token per connected account.
type CalendarConnectionsRepository interface {
	Save(ctx context.Context, account string, token json.RawMessage) error
	Get(ctx context.Context, account string) (json.RawMessage, error)
}

// EventsWriter upserts calendar events and links attendees.
type EventsWriter interface {
	Upsert(ctx context.Context, in models.UpsertEventInput) (*models.Event, int, error)
}

// CalendarService connects Google Calendar accounts and imports their events.
type CalendarService struct {
	api         CalendarAPI
	state       OAuthState
	connections CalendarConnectionsRepository
	events      EventsWriter
}

// NewCalendarService creates a CalendarService. api and state are nil when Google OAuth is
// not configured; every call then fails with a ConfigurationError.
func NewCalendarService(
	api CalendarAPI, state OAuthState, connections CalendarConnectionsRepository, events EventsWriter,
) *CalendarService {
	return &CalendarService{api: api, state: state, connections: connections, events: events}
}

func (s *CalendarService) configured() error {
	if s.api == nil || s.state == nil {
		return huberrors.NewConfigurationError("GOOGLE_CLIENT_ID", "Google Calendar is not configured")
	}

	return nil
}

// AuthURL returns the Google consent URL with a freshly signed state.
func (s *CalendarService) AuthURL() (*models.CalendarAuthURLResponse, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	state, err := s.state.New()
	if err != nil {
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}

	return &models.CalendarAuthURLResponse{URL: s.api.AuthCodeURL(state)}, nil
}

// Connect completes the OAuth flow: it checks state, exchanges the code and stores the token
// under the primary calendar id (the account email).
func (s *CalendarService) Connect(ctx context.Context, code, state string) (*models.CalendarConnectedResponse, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	if code == "" {
		return nil, huberrors.NewValidationError("code", "code is required")
	}

	if !s.state.Verify(state) {
		return nil, huberrors.NewValidationError("state", gcal.ErrInvalidState.Error())
	}

	token, err := s.api.Exchange(ctx, code)
	if err != nil {
		return nil, huberrors.NewUpstreamError("google_oauth", err)
	}

	account, err := s.api.PrimaryCalendarID(ctx, token)
	if err != nil {
		return nil, huberrors.NewUpstreamError("google_calendar", err)
	}

	if err := s.saveToken(ctx, account, token); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "calendar: account connected", "account", account)

	return &models.CalendarConnectedResponse{Success: true, Account: account}, nil
}

// Sync imports the account's events in the requested window. Events are keyed by their
// Google id, so repeated syncs update rather than duplicate.
func (s *CalendarService) Sync(ctx context.Context, req *models.CalendarSyncRequest) (*models.CalendarSyncResponse, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	raw, err := s.connections.Get(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("decode stored calendar token: %w", err)
	}

	opts := gcal.ListOptions{CalendarID: req.CalendarID}
	if req.Since != nil {
		opts.Since = *req.Since
	}

	if req.Until != nil {
		opts.Until = *req.Until
	}

	if !opts.Since.IsZero() && !opts.Until.IsZero() && !opts.Until.After(opts.Since) {
		return nil, huberrors.NewValidationError("until", "until must be after since")
	}

	inputs, refreshed, err := s.api.ListEvents(ctx, &token, opts)
	if err != nil {
		if errors.Is(err, gcal.ErrCalendarNotFound) {
			return nil, huberrors.NewNotFoundError("calendar", err.Error())
		}

		return nil, huberrors.NewUpstreamError("google_calendar", err)
	}

	if refreshed != nil && refreshed.AccessToken != token.AccessToken {
		if err := s.saveToken(ctx, req.Account, refreshed); err != nil {
			slog.WarnContext(ctx, "calendar: failed to persist refreshed token", "account", req.Account, "error", err)
		}
	}

	resp := &models.CalendarSyncResponse{}

	for _, in := range inputs {
		_, linked, err := s.events.Upsert(ctx, in)
		if err != nil {
			return nil, err
		}

		resp.Imported++
		resp.LinkedAttendees += linked
	}

	slog.InfoContext(ctx, "calendar: sync complete",
		"account", req.Account,
		"imported", resp.Imported,
		"linked_attendees", resp.LinkedAttendees,
		"window_days", windowDays(opts),
	)

	return resp, nil
}

func (s *CalendarService) saveToken(ctx context.Context, account string, token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode calendar token: %w", err)
	}

	return s.connections.Save(ctx, account, raw)
}

func windowDays(opts gcal.ListOptions) int {
	if opts.Since.IsZero() || opts.Until.IsZero() {
		return 0
	}

	return int(opts.Until.Sub(opts.Since) / (24 * time.Hour))
}
