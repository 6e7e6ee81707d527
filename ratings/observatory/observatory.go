// Package observatory holds the Mozilla HTTP Observatory API (v1) payloads
// and the operations this tool uses.
package observatory

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sslratings/sslratings/ratings"
)

// DefaultBaseURL is the public HTTP Observatory API.
const DefaultBaseURL = "https://http-observatory.security.mozilla.org/api/v1/"

// Values of Scan.State.
const (
	StateAborted  = "ABORTED"
	StateFailed   = "FAILED"
	StateFinished = "FINISHED"
	StatePending  = "PENDING"
	StateStarting = "STARTING"
	StateRunning  = "RUNNING"
)

// Scan is the response of the analyze operation.
//
// On failure the Observatory answers with only Error set, e.g.
// {"error": "invalid-hostname"}.
type Scan struct {
	ScanID      *int    `json:"scan_id"`
	State       *string `json:"state"`
	Score       *int    `json:"score"`
	Grade       *string `json:"grade"`
	TestsFailed int     `json:"tests_failed"`
	TestsPassed int     `json:"tests_passed"`
	TestsTotal  int     `json:"tests_quantity"`
	Error       *string `json:"error"`
}

// Finished reports whether the scan reached its terminal state.
func (s Scan) Finished() bool {
	return s.State != nil && *s.State == StateFinished
}

// API talks to an HTTP Observatory deployment. Use observatory.New() to
// construct.
type API struct {
	client  ratings.Client
	baseURL string
}

// New creates an API for the given base URL.
func New(client ratings.Client, baseURL string) API {
	return API{client: client, baseURL: baseURL}
}

// Analyze starts (or continues) a scan of host. A hidden scan is not listed
// on the public Observatory pages.
func (a API) Analyze(ctx context.Context, host string, hidden bool) (Scan, error) {
	params := url.Values{}
	params.Set("hidden", strconv.FormatBool(hidden))

	var s Scan
	err := a.client.Call(ctx, a.baseURL, "analyze?host="+url.QueryEscape(host), params, true, &s)
	return s, err
}

// Result fetches the most recent scan of host without starting a new one.
func (a API) Result(ctx context.Context, host string) (Scan, error) {
	params := url.Values{}
	params.Set("host", host)

	var s Scan
	err := a.client.Call(ctx, a.baseURL, "analyze", params, false, &s)
	return s, err
}
