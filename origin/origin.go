// Package origin validates the base URLs of the rating services.
package origin

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Origin holds the scheme, host and port a service is reached at, based on
// the definition in https://tools.ietf.org/html/rfc6454
type Origin struct {
	// HostName is called HostName instead of Host to distinguish it from
	// url.URL.Host.
	HostName string
	Scheme   string
	// Kept as a string so that it can be joined back without formatting.
	PortString string
}

// defaultPorts holds the schemes a service may be reached over.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// New creates an origin based on the origin of the given URL.
func New(u *url.URL) (Origin, error) {
	defaultPort, ok := defaultPorts[u.Scheme]
	if !ok {
		return Origin{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Origin{}, fmt.Errorf("no host in %q", u.String())
	}

	port := u.Port()
	if port == "" {
		port = defaultPort
	}

	return Origin{
		HostName:   u.Hostname(),
		Scheme:     u.Scheme,
		PortString: port,
	}, nil
}

// String omits the port when it is the default for the scheme.
func (o Origin) String() string {
	host := o.HostName
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if o.PortString != defaultPorts[o.Scheme] {
		host = net.JoinHostPort(o.HostName, o.PortString)
	}
	return o.Scheme + "://" + host
}

// BaseURL checks that rawURL can serve as the base of a rating service API
// and returns it with a trailing slash, so operation names can be appended.
// Query strings and fragments are not allowed.
func BaseURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid service URL %q: %w", rawURL, err)
	}
	o, err := New(u)
	if err != nil {
		return "", fmt.Errorf("invalid service URL %q: %w", rawURL, err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("invalid service URL %q: query and fragment are not allowed", rawURL)
	}

	return o.String() + strings.TrimSuffix(u.EscapedPath(), "/") + "/", nil
}
