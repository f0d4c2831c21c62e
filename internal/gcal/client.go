package gcal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/networkbrain/brain/internal/models"
)

const (
	defaultPageSize = 250
	// Conservative defaults, well under Google's per-user calendar quota.
	defaultRequestsPerSecond = 5.0
	defaultBurst             = 10
)

// Client talks to Google OAuth and the Calendar v3 API.
type Client struct {
	oauth       *oauth2.Config
	limiter     *rate.Limiter
	serviceOpts []option.ClientOption
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithRateLimit overrides the requests-per-second limit and burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithServiceOptions appends options used when building the Calendar service
// (endpoint and HTTP client overrides in tests).
func WithServiceOptions(opts ...option.ClientOption) ClientOption {
	return func(c *Client) {
		c.serviceOpts = append(c.serviceOpts, opts...)
	}
}

// NewClient creates a calendar client for the given OAuth app credentials.
func NewClient(clientID, clientSecret, redirectURL string, opts ...ClientOption) *Client {
	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{calendar.CalendarReadonlyScope},
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AuthCodeURL returns the consent URL. Offline access is requested so a refresh
// token is issued and later syncs work without the user present.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("gcal: exchange code: %w", err)
	}

	return token, nil
}

// session is a Calendar service bound to one token source.
type session struct {
	svc *calendar.Service
	ts  oauth2.TokenSource
}

func (c *Client) newSession(ctx context.Context, token *oauth2.Token) (*session, error) {
	ts := c.oauth.TokenSource(ctx, token)

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.serviceOpts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: create calendar service: %w", err)
	}

	return &session{svc: svc, ts: ts}, nil
}

// PrimaryCalendarID returns the ID of the account's primary calendar, which is the
// account email address.
func (c *Client) PrimaryCalendarID(ctx context.Context, token *oauth2.Token) (string, error) {
	s, err := c.newSession(ctx, token)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	cal, err := s.svc.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		return "", mapError(err)
	}

	return cal.Id, nil
}

// ListOptions bounds an event listing. Zero times are open-ended.
type ListOptions struct {
	CalendarID string
	Since      time.Time
	Until      time.Time
}

// ListEvents returns the events of a calendar as upsert inputs, expanding recurring
// events into instances and skipping cancelled ones. The returned token is the
// current one after any refresh, so callers can persist it.
func (c *Client) ListEvents(
	ctx context.Context, token *oauth2.Token, opts ListOptions,
) ([]models.UpsertEventInput, *oauth2.Token, error) {
	s, err := c.newSession(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	calendarID := opts.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	call := s.svc.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(defaultPageSize).
		Context(ctx)

	if !opts.Since.IsZero() {
		call = call.TimeMin(opts.Since.Format(time.RFC3339))
	}

	if !opts.Until.IsZero() {
		call = call.TimeMax(opts.Until.Format(time.RFC3339))
	}

	var out []models.UpsertEventInput

	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if in, ok := ToUpsertInput(item); ok {
				out = append(out, in)
			}
		}

		// Pages fetches the next page right after this callback returns.
		return c.limiter.Wait(ctx)
	})
	if err != nil {
		return nil, nil, mapError(err)
	}

	current, err := s.ts.Token()
	if err != nil {
		return out, token, nil //nolint:nilerr // events were fetched; keep the old token
	}

	return out, current, nil
}

// ToUpsertInput converts a Google event. It reports false for cancelled events and
// events without a usable start time.
func ToUpsertInput(event *calendar.Event) (models.UpsertEventInput, bool) {
	if event == nil || event.Id == "" || event.Status == "cancelled" {
		return models.UpsertEventInput{}, false
	}

	start, ok := parseEventTime(event.Start)
	if !ok {
		return models.UpsertEventInput{}, false
	}

	title := strings.TrimSpace(event.Summary)
	if title == "" {
		title = "(untitled event)"
	}

	in := models.UpsertEventInput{
		Title:      title,
		StartTime:  start,
		Source:     models.EventSourceGoogleCalendar,
		ExternalID: event.Id,
	}

	if end, ok := parseEventTime(event.End); ok {
		in.EndTime = &end
	}

	if d := strings.TrimSpace(event.Description); d != "" {
		in.Description = &d
	}

	if l := strings.TrimSpace(event.Location); l != "" {
		in.Location = &l
	}

	for _, a := range event.Attendees {
		if a == nil || a.Email == "" || a.Resource {
			continue
		}

		in.AttendeeEmails = append(in.AttendeeEmails, a.Email)
	}

	return in, true
}

// parseEventTime reads a timed (DateTime) or all-day (Date) event boundary.
func parseEventTime(t *calendar.EventDateTime) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}

	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)

		return parsed, err == nil
	}

	if t.Date != "" {
		parsed, err := time.Parse(time.DateOnly, t.Date)

		return parsed, err == nil
	}

	return time.Time{}, false
}
