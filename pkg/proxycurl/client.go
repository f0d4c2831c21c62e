// Package proxycurl is a small client for the Proxycurl LinkedIn data API.
package proxycurl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the public Proxycurl API root.
const DefaultBaseURL = "https://nubela.co/proxycurl"

// ErrProfileNotFound is returned when Proxycurl has no profile for the query.
var ErrProfileNotFound = errors.New("proxycurl: profile not found")

// APIError is a non-2xx response other than 404.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("proxycurl: API request failed with status %d: %s", e.StatusCode, e.Body)
}

// ClientOptions configures the Proxycurl API client
type ClientOptions struct {
	// BaseURL is the API root (default: DefaultBaseURL)
	BaseURL string
	// APIKey is sent as a bearer token
	APIKey string
	// RetryMax is the maximum number of retries. Zero means no retries: every
	// lookup is billed, so callers opt in explicitly.
	RetryMax int
	// Timeout is the HTTP client timeout (default: 30 seconds)
	Timeout time.Duration
}

// Client is the Proxycurl API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
}

// NewClient creates a client with default settings
func NewClient(apiKey string) *Client {
	return NewClientWithOptions(ClientOptions{APIKey: apiKey})
}

// NewClientWithOptions creates a client with custom options
func NewClientWithOptions(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil
	// Hand the last response back instead of a generic "giving up" error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: retryClient,
	}
}

// GetProfile fetches a person profile by LinkedIn URL.
func (c *Client) GetProfile(ctx context.Context, linkedInURL string) (*Profile, error) {
	if linkedInURL == "" {
		return nil, errors.New("proxycurl: linkedin url is required")
	}

	params := url.Values{}
	params.Set("linkedin_profile_url", linkedInURL)
	params.Set("use_cache", "if-present")

	var profile Profile
	if err := c.get(ctx, "/api/v2/linkedin", params, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// LookupOptions identifies a person without a LinkedIn URL.
type LookupOptions struct {
	FirstName string
	LastName  string
	// Company is a company name or domain; Proxycurl accepts either.
	Company  string
	Title    string
	Location string
}

// LookupProfile resolves a person by name and returns the enriched profile in the
// same call. The returned URL is the resolved LinkedIn profile URL.
func (c *Client) LookupProfile(ctx context.Context, opts LookupOptions) (*Profile, string, error) {
	if opts.FirstName == "" {
		return nil, "", errors.New("proxycurl: first name is required")
	}

	params := url.Values{}
	params.Set("first_name", opts.FirstName)
	params.Set("enrich_profile", "enrich")
	params.Set("similarity_checks", "include")

	optional := map[string]string{
		"last_name":      opts.LastName,
		"company_domain": opts.Company,
		"title":          opts.Title,
		"location":       opts.Location,
	}
	for k, v := range optional {
		if v != "" {
			params.Set(k, v)
		}
	}

	var resolved resolveResponse
	if err := c.get(ctx, "/api/linkedin/profile/resolve", params, &resolved); err != nil {
		return nil, "", err
	}

	if resolved.Profile == nil {
		return nil, "", ErrProfileNotFound
	}

	return resolved.Profile, resolved.URL, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrProfileNotFound
	case resp.StatusCode != http.StatusOK:
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
