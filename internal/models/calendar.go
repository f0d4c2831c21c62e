package models

import "time"

// CalendarSyncRequest is the body of POST /v1/calendar/sync.
type CalendarSyncRequest struct {
	Account    string     `json:"account" validate:"required,max=320,no_null_bytes"`
	CalendarID string     `json:"calendarId,omitempty" validate:"omitempty,max=1024,no_null_bytes"`
	Since      *time.Time `json:"since,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
}

// CalendarSyncResponse reports how many events were imported.
type CalendarSyncResponse struct {
	Imported        int `json:"imported"`
	LinkedAttendees int `json:"linkedAttendees"`
}

// CalendarAuthURLResponse is returned by GET /v1/calendar/auth-url.
type CalendarAuthURLResponse struct {
	URL string `json:"url"`
}

// CalendarConnectedResponse is returned by the OAuth callback.
type CalendarConnectedResponse struct {
	Success bool   `json:"success"`
	Account string `json:"account"`
}

// ClientConfigResponse carries the values the browser UI needs at runtime.
type ClientConfigResponse struct {
	PublicBaseURL string `json:"publicBaseUrl"`
	MapsAPIKey    string `json:"mapsApiKey,omitempty"`
}
