// Package ssllabs holds the SSL Labs assessment API (v2) payloads and the
// operations this tool uses.
package ssllabs

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sslratings/sslratings/ratings"
)

// DefaultBaseURL is the public SSL Labs API.
const DefaultBaseURL = "https://api.ssllabs.com/api/v2/"

// Values of Host.Status.
const (
	StatusDNS        = "DNS"
	StatusError      = "ERROR"
	StatusInProgress = "IN_PROGRESS"
	StatusReady      = "READY"
)

// ProtocolTLS12 is the protocol id SSL Labs reports for TLS 1.2.
const ProtocolTLS12 = 771

// Info is the response of the info operation.
type Info struct {
	EngineVersion      string   `json:"engineVersion"`
	CriteriaVersion    string   `json:"criteriaVersion"`
	MaxAssessments     int      `json:"maxAssessments"`
	CurrentAssessments int      `json:"currentAssessments"`
	Messages           []string `json:"messages"`
	Errors             []Error  `json:"errors,omitempty"`
}

// Host is the response of the analyze operation.
type Host struct {
	Host          string         `json:"host"`
	Port          int            `json:"port"`
	Status        string         `json:"status"`
	StatusMessage *string        `json:"statusMessage"`
	Endpoints     []HostEndpoint `json:"endpoints"`
	Errors        []Error        `json:"errors,omitempty"`
}

// HostEndpoint is the abbreviated endpoint status embedded in Host.
type HostEndpoint struct {
	IPAddress            string  `json:"ipAddress"`
	StatusMessage        *string `json:"statusMessage"`
	StatusDetailsMessage *string `json:"statusDetailsMessage"`
	Grade                string  `json:"grade"`
	Progress             *int    `json:"progress"`
}

// Endpoint is the response of the getEndpointData operation.
//
// Pointer members are optional in the upstream payload; nil means absent.
type Endpoint struct {
	IPAddress string   `json:"ipAddress"`
	Grade     string   `json:"grade"`
	Progress  *int     `json:"progress"`
	Details   *Details `json:"details"`
	Errors    []Error  `json:"errors,omitempty"`
}

// Details is the detailed assessment of one endpoint.
type Details struct {
	Protocols           []Protocol `json:"protocols"`
	Cert                *Cert      `json:"cert"`
	SupportsRC4         *bool      `json:"supportsRc4"`
	ForwardSecrecy      *int       `json:"forwardSecrecy"`
	Poodle              *bool      `json:"poodle"`
	PoodleTLS           *int       `json:"poodleTls"`
	Heartbleed          *bool      `json:"heartbleed"`
	Freak               *bool      `json:"freak"`
	Logjam              *bool      `json:"logjam"`
	VulnBeast           *bool      `json:"vulnBeast"`
	OpenSSLCCS          *int       `json:"openSslCcs"`
	OpenSSLLuckyMinus20 *int       `json:"openSSLLuckyMinus20"`
	DrownVulnerable     *bool      `json:"drownVulnerable"`
	FallbackSCSV        *bool      `json:"fallbackScsv"`
	STSResponseHeader   *string    `json:"stsResponseHeader"`
}

// Protocol is one protocol supported by the endpoint.
type Protocol struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Cert is the leaf certificate of the endpoint.
type Cert struct {
	Subject        string  `json:"subject"`
	SigAlg         *string `json:"sigAlg"`
	ValidationType *string `json:"validationType"`
}

// Error is one entry of the errors array SSL Labs returns on failure.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FirstError returns the message of the first error, if any.
func FirstError(errs []Error) (string, bool) {
	if len(errs) == 0 {
		return "", false
	}
	return errs[0].Message, true
}

// API talks to an SSL Labs deployment. Use ssllabs.New() to construct.
type API struct {
	client  ratings.Client
	baseURL string
}

// New creates an API for the given base URL.
func New(client ratings.Client, baseURL string) API {
	return API{client: client, baseURL: baseURL}
}

// Analyze starts an assessment of host, unless one finished within the last
// maxAge hours, and reports its current status.
func (a API) Analyze(ctx context.Context, host string, publish string, maxAge int) (Host, error) {
	params := url.Values{}
	params.Set("host", host)
	params.Set("publish", publish)
	params.Set("maxAge", strconv.Itoa(maxAge))

	var h Host
	err := a.client.Call(ctx, a.baseURL, "analyze", params, false, &h)
	return h, err
}

// EndpointData fetches the detailed assessment of the endpoint with address
// ip serving host.
func (a API) EndpointData(ctx context.Context, host string, ip string) (Endpoint, error) {
	params := url.Values{}
	params.Set("host", host)
	params.Set("s", ip)

	var e Endpoint
	err := a.client.Call(ctx, a.baseURL, "getEndpointData", params, false, &e)
	return e, err
}

// Info fetches the usage counters of the API.
func (a API) Info(ctx context.Context) (Info, error) {
	var i Info
	err := a.client.Call(ctx, a.baseURL, "info", nil, false, &i)
	return i, err
}
