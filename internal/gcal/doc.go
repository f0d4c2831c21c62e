// Package gcal imports events from Google Calendar.
//
// It wraps the OAuth2 authorization-code flow (read-only calendar scope), the
// Calendar v3 events listing, and a token-bucket limiter that keeps a sync
// well inside Google's per-user quota. Events are converted into
// models.UpsertEventInput so the caller only deals with domain types.
package gcal
