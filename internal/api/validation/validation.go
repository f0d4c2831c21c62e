// Package validation provides request validation and custom validators.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/networkbrain/brain/internal/api/response"
	"github.com/networkbrain/brain/internal/models"
)

var (
	// validate and decoder are package-level singletons that are safe for concurrent
	// read-only access (validate.Struct() and decoder.Decode() are thread-safe).
	// All registrations (RegisterValidation, RegisterCustomTypeFunc, etc.) MUST happen
	// in init() only, as these methods are NOT thread-safe. Do NOT modify these
	// instances after init() completes.
	validate *validator.Validate
	decoder  *form.Decoder
)

func init() {
	validate = validator.New()
	decoder = form.NewDecoder()

	// Report fields by the name clients send: json for bodies, form for query strings.
	validate.RegisterTagNameFunc(fieldName)

	if err := validate.RegisterValidation("no_null_bytes", validateNoNullBytes); err != nil {
		slog.Error("Failed to register no_null_bytes validator", "error", err)
	}

	if err := validate.RegisterValidation("linkedin_profile", validateLinkedInProfile); err != nil {
		slog.Error("Failed to register linkedin_profile validator", "error", err)
	}

	// uuid.UUID is a byte array, which form cannot decode on its own.
	decoder.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || vals[0] == "" {
			return uuid.Nil, nil
		}

		id, err := uuid.Parse(vals[0])
		if err != nil {
			return nil, fmt.Errorf("invalid UUID: %w", err)
		}

		return id, nil
	}, uuid.UUID{})

	decoder.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 || vals[0] == "" {
			return (*models.IntroductionStatus)(nil), nil
		}

		status := models.IntroductionStatus(vals[0])

		return &status, nil
	}, (*models.IntroductionStatus)(nil))
}

// ValidateStruct validates a struct using go-playground/validator
// Returns validation errors formatted as RFC 7807 Problem Details.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// FieldErrors is the error returned by ValidateStruct. Its message lists every failed field;
// Unwrap exposes the validator errors for per-field problem details.
type FieldErrors struct {
	errs validator.ValidationErrors
}

func (e *FieldErrors) Error() string {
	messages := make([]string, 0, len(e.errs))
	for _, fieldError := range e.errs {
		messages = append(messages, formatFieldError(fieldError))
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

func (e *FieldErrors) Unwrap() error {
	return e.errs
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return &FieldErrors{errs: validationErrors}
	}

	return err
}

// fieldMessages renders a failed tag. %[1]s is the field, %[2]s the tag parameter.
var fieldMessages = map[string]string{
	"required":         "%[1]s is required",
	"min":              "%[1]s must be at least %[2]s",
	"max":              "%[1]s must be at most %[2]s",
	"gte":              "%[1]s must be greater than or equal to %[2]s",
	"lte":              "%[1]s must be less than or equal to %[2]s",
	"oneof":            "%[1]s must be one of: %[2]s",
	"eq":               "%[1]s must equal %[2]s",
	"email":            "%[1]s must be a valid email address",
	"url":              "%[1]s must be a valid URL",
	"uuid":             "%[1]s must be a valid UUID",
	"no_null_bytes":    "%[1]s must not contain NULL bytes",
	"linkedin_profile": "%[1]s must be a LinkedIn profile URL (https://www.linkedin.com/in/...)",
}

func formatFieldError(fieldError validator.FieldError) string {
	msg, ok := fieldMessages[fieldError.Tag()]
	if !ok {
		return fieldError.Field() + " is invalid"
	}

	if !strings.Contains(msg, "%[2]s") {
		return fmt.Sprintf(msg, fieldError.Field())
	}

	return fmt.Sprintf(msg, fieldError.Field(), fieldError.Param())
}

// GetValidationErrorDetails extracts field-level error details from validation errors
// Returns a slice of ErrorDetail for RFC 7807 Problem Details.
func GetValidationErrorDetails(err error) []response.ErrorDetail {
	var details []response.ErrorDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			details = append(details, response.ErrorDetail{
				Location: fieldError.Field(),
				Message:  formatFieldError(fieldError),
				Value:    fieldError.Value(),
			})
		}
	}

	return details
}

// RespondValidationError writes a validation error response with RFC 7807 Problem Details.
func RespondValidationError(w http.ResponseWriter, err error) {
	details := GetValidationErrorDetails(err)

	problem := response.ProblemDetails{
		Type:   "about:blank",
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: err.Error(),
		Errors: details,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)

	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("Failed to encode validation error response", "error", err)
	}
}

// DecodeQueryParams decodes URL query parameters into a struct.
func DecodeQueryParams(r *http.Request, dst any) error {
	if err := decoder.Decode(dst, r.URL.Query()); err != nil {
		return fmt.Errorf("failed to decode query parameters: %w", err)
	}

	return nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return f.Name
}

// validateNoNullBytes checks that a string field does not contain NULL bytes
// Handles both string and *string types.
func validateNoNullBytes(fl validator.FieldLevel) bool {
	field := fl.Field()

	// Handle pointer types
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true // nil pointer is valid (handled by omitempty)
		}

		field = field.Elem()
	}

	// Must be a string type
	if field.Kind() != reflect.String {
		return true // Not a string, skip validation
	}

	value := field.String()

	return !strings.Contains(value, "\x00")
}

// validateLinkedInProfile accepts http(s) URLs on linkedin.com (any subdomain) whose path is a
// member profile (/in/<slug>). Proxycurl's person endpoint resolves nothing else.
func validateLinkedInProfile(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}

		field = field.Elem()
	}

	u, err := url.Parse(strings.TrimSpace(field.String()))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return false
	}

	slug, ok := strings.CutPrefix(u.Path, "/in/")

	return ok && strings.Trim(slug, "/") != ""
}
