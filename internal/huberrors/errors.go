// Package huberrors provides sentinel and custom error types for the application.
package huberrors

import "strings"

// ErrNotFound represents a "not found" error.
// Use when a requested person, prompt or introduction doesn't exist (or is soft-deleted).
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new NotFoundError with a custom message.
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Resource != "" {
		return e.Resource + " not found"
	}

	return "resource not found"
}

// Is implements the error interface for error comparison.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)

	return ok
}

// ErrValidation represents a validation error.
// Use when client input or model output fails validation.
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewMissingFieldsError reports every missing field in one error. Field holds the
// comma-separated names so callers can surface them without parsing the message.
func NewMissingFieldsError(subject string, fields []string) *ValidationError {
	joined := strings.Join(fields, ", ")

	return &ValidationError{
		Field:   joined,
		Message: subject + " missing required fields: " + joined,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}

	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)

	return ok
}

// ErrPrecondition is the sentinel for operations whose inputs exist but are not ready,
// e.g. generating introductions for a person that has no embedding yet.
var ErrPrecondition = &PreconditionError{}

// PreconditionError is a sentinel error for unmet preconditions.
type PreconditionError struct {
	Message string
}

// NewPreconditionError creates a PreconditionError with a custom message.
func NewPreconditionError(message string) *PreconditionError {
	return &PreconditionError{Message: message}
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "precondition failed"
}

// Is implements the error interface for error comparison.
func (e *PreconditionError) Is(target error) bool {
	_, ok := target.(*PreconditionError)

	return ok
}

// ErrConfiguration is the sentinel for missing credentials or settings.
var ErrConfiguration = &ConfigurationError{}

// ConfigurationError is returned when a feature is called without its required configuration.
type ConfigurationError struct {
	Setting string
	Message string
}

// NewConfigurationError creates a ConfigurationError naming the missing setting.
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Setting != "" {
		return e.Setting + " is not configured"
	}

	return "configuration error"
}

// Is implements the error interface for error comparison.
func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)

	return ok
}

// ErrUpstream is the sentinel for failures reported by the datastore or a third-party API.
var ErrUpstream = &UpstreamError{}

// UpstreamError wraps a failure from an external dependency. The message is passed
// through to the client unchanged.
type UpstreamError struct {
	Service string
	Err     error
}

// NewUpstreamError wraps err as a failure of the named service.
func NewUpstreamError(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Service + " request failed"
	}

	return e.Service + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is implements the error interface for error comparison.
func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)

	return ok
}
