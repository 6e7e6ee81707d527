package scan

import (
	"context"
	"fmt"

	"github.com/sslratings/sslratings/ratings/observatory"
	"github.com/sslratings/sslratings/ratings/ssllabs"
)

// SSLLabs is the part of the SSL Labs API a Runner uses.
type SSLLabs interface {
	Analyze(ctx context.Context, host string, publish string, maxAge int) (ssllabs.Host, error)
	EndpointData(ctx context.Context, host string, ip string) (ssllabs.Endpoint, error)
	Info(ctx context.Context) (ssllabs.Info, error)
}

// Observatory is the part of the HTTP Observatory API a Runner uses.
type Observatory interface {
	Analyze(ctx context.Context, host string, hidden bool) (observatory.Scan, error)
	Result(ctx context.Context, host string) (observatory.Scan, error)
}

// Trigger starts, or continues, the assessment of host on both services and
// reports whether both are complete. It does not wait: callers poll by
// calling it again later. maxAge (in hours) lets SSL Labs serve a cached
// assessment instead of starting a new one.
//
// status is meant for an operator and names the service that is still
// pending.
func Trigger(ctx context.Context, labs SSLLabs, obs Observatory, host string, publish string, maxAge int) (ready bool, status string, err error) {
	h, err := labs.Analyze(ctx, host, publish, maxAge)
	if err != nil {
		return false, "", fmt.Errorf("SSL Labs analyze %s: %w", host, err)
	}
	labsReady := h.Status == ssllabs.StatusReady
	status = labsStatus(h)

	o, err := obs.Analyze(ctx, host, publish == "off")
	if err != nil {
		return false, "", fmt.Errorf("Observatory analyze %s: %w", host, err)
	}

	ready = labsReady && o.Finished()
	if !ready && (status == "" || status == "Ready") {
		status = observatoryStatus(o)
	}
	return ready, status, nil
}

func labsStatus(h ssllabs.Host) string {
	if h.StatusMessage != nil {
		return *h.StatusMessage
	}
	if len(h.Endpoints) > 0 {
		e := h.Endpoints[0]
		if e.StatusDetailsMessage != nil {
			return *e.StatusDetailsMessage
		}
		if e.StatusMessage != nil {
			return *e.StatusMessage
		}
	}
	return "Unknown"
}
