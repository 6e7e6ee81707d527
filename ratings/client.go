// Package ratings issues requests to the remote rating services and decodes
// their JSON payloads. It does not interpret the payloads; see the ssllabs
// and observatory subpackages for the typed operations.
package ratings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single Call.
	DefaultTimeout = 60 * time.Second

	maxBodySize    = 8 << 20
	maxSnippetSize = 120
)

// DecodeError is returned by Call when a response body is not JSON at all.
type DecodeError struct {
	URL    string
	Status int
	// Snippet holds the start of the offending body.
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode response from %s (status %d, body %q): %s", e.URL, e.Status, e.Snippet, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShapeError is returned by Call when a response body is valid JSON but does
// not fit the expected payload, e.g. a string where a number is expected.
// It concerns a single report, so callers treat it as a failure of the site
// rather than of the service.
type ShapeError struct {
	URL string
	// Field is the dotted path of the mismatching member, if known.
	Field string
	Err   error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.URL, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// A Client performs single, unretried calls against a rating service.
// Use ratings.New() to construct.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// New creates a Client. A zero timeout means DefaultTimeout.
func New(httpClient *http.Client, timeout time.Duration) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Client{
		httpClient: httpClient,
		timeout:    timeout,
		userAgent:  "sslratings",
	}
}

// Call issues exactly one request for operation relative to baseURL and
// decodes the JSON body into v.
//
// Reads use GET with params in the query string. Writes use POST with params
// form-encoded in the body. The HTTP status is not interpreted: both services
// answer errors with a JSON payload that the caller inspects.
func (c Client) Call(ctx context.Context, baseURL string, operation string, params url.Values, write bool, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(operation, "/")

	var req *http.Request
	var err error
	if write {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
	if err != nil {
		return fmt.Errorf("could not build request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("could not read response from %s: %w", u, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ShapeError{URL: u, Field: typeErr.Field, Err: err}
		}
		return &DecodeError{
			URL:     u,
			Status:  resp.StatusCode,
			Snippet: snippet(body),
			Err:     err,
		}
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetSize {
		return s[:maxSnippetSize] + "..."
	}
	return s
}
