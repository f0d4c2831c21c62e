package gcal

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Google API errors.
var (
	// ErrUnauthorized indicates invalid, revoked or expired credentials.
	ErrUnauthorized = errors.New("gcal: unauthorised (invalid credentials)")
	// ErrForbidden indicates the token lacks calendar access.
	ErrForbidden = errors.New("gcal: forbidden (insufficient permissions)")
	// ErrCalendarNotFound indicates the calendar ID does not exist for the account.
	ErrCalendarNotFound = errors.New("gcal: calendar not found")
	// ErrRateLimited indicates Google rejected the request for quota reasons.
	ErrRateLimited = errors.New("gcal: rate limit exceeded")
	// ErrInvalidState is returned when an OAuth callback state fails verification.
	ErrInvalidState = errors.New("gcal: invalid oauth state")
)

// mapError converts googleapi errors into the sentinels above, keeping the original as context.
func mapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
	case http.StatusForbidden:
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
			}
		}

		return fmt.Errorf("%w: %s", ErrForbidden, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrCalendarNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, gerr.Message)
	default:
		return err
	}
}
