package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/sslratings/sslratings/ratings"
	"github.com/sslratings/sslratings/ratings/ssllabs"
	"github.com/sslratings/sslratings/site"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// A Sink receives the outcome of each site as soon as it is known.
type Sink interface {
	Write(Outcome) error
}

// Options control a Runner.
type Options struct {
	// Publish is passed to SSL Labs as "on" or "off". Observatory scans are
	// hidden when it is "off".
	Publish string
	// MaxAge is the age in hours of a cached SSL Labs assessment that may be
	// reused.
	MaxAge         int
	Incomplete     IncompletePolicy
	OnServiceError ServiceErrorPolicy
	// CheckPreloadList makes Collect download the Chromium HSTS preload list
	// once and record whether each host is on it.
	CheckPreloadList bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Publish:        "off",
		MaxAge:         12,
		Incomplete:     ReportScoreUnavailable,
		OnServiceError: AbortRun,
	}
}

// Runner processes sites one after another. Use scan.New() to construct.
type Runner struct {
	labs        SSLLabs
	obs         Observatory
	resolver    Resolver
	preloadlist preloadlistWrapper
	opts        Options
	logger      *zap.SugaredLogger
}

// New creates a Runner using the given services.
func New(labs SSLLabs, obs Observatory, resolver Resolver, opts Options, logger *zap.SugaredLogger) Runner {
	return Runner{
		labs:        labs,
		obs:         obs,
		resolver:    resolver,
		preloadlist: actualPreloadlist{},
		opts:        opts,
		logger:      logger,
	}
}

// Start triggers an assessment of every site and writes one progress line
// per site to w.
func (r Runner) Start(ctx context.Context, sites []site.Site, w io.Writer) error {
	for _, s := range sites {
		fmt.Fprintf(w, "processing %s: ", s.Name)

		ready, status, err := Trigger(ctx, r.labs, r.obs, s.Host, r.opts.Publish, r.opts.MaxAge)
		if err != nil {
			if r.opts.OnServiceError == AbortRun && !siteLocal(err) {
				fmt.Fprintln(w)
				return err
			}
			r.logger.Warnw("Skipping site", "site", s.Name, "host", s.Host, "error", err)
			fmt.Fprintf(w, "failed (%s).\n", err)
			continue
		}

		r.logger.Debugw("Triggered assessment", "host", s.Host, "ready", ready, "status", status)
		if ready {
			fmt.Fprintf(w, "Report ready.\n")
		} else {
			fmt.Fprintf(w, "%s...\n", status)
		}
	}
	return nil
}

// Info writes the SSL Labs assessment counters to w.
func (r Runner) Info(ctx context.Context, w io.Writer) error {
	info, err := r.labs.Info(ctx)
	if err != nil {
		return fmt.Errorf("SSL Labs info: %w", err)
	}
	if msg, ok := ssllabs.FirstError(info.Errors); ok {
		return fmt.Errorf("SSL Labs info: %s", msg)
	}

	fmt.Fprintf(w, "assessments: %d/%d\n", info.CurrentAssessments, info.MaxAssessments)
	return nil
}

// Collect fetches the final reports of every site, normalizes them and
// hands each outcome to sink before moving on. If progress is not nil, a
// progress line per site is written to it.
func (r Runner) Collect(ctx context.Context, sites []site.Site, sink Sink, progress io.Writer) error {
	if progress == nil {
		progress = io.Discard
	}

	var idx preloadIndex
	if r.opts.CheckPreloadList {
		idx = r.fetchPreloadIndex()
	}

	for _, s := range sites {
		fmt.Fprintf(progress, "processing %s: ", s.Name)

		o, err := r.collect(ctx, s)
		if err != nil {
			if r.opts.OnServiceError == AbortRun && !siteLocal(err) {
				fmt.Fprintln(progress)
				return err
			}
			r.logger.Warnw("Skipping site", "site", s.Name, "host", s.Host, "error", err)
			o = Failure{Site: s, Message: err.Error()}
		}
		if res, ok := o.(Result); ok && idx != nil {
			res.HSTS.Listed = idx.covers(s.Host)
			o = res
		}

		if err := sink.Write(o); err != nil {
			fmt.Fprintln(progress)
			return fmt.Errorf("could not write outcome for %s: %w", s.Host, err)
		}

		switch v := o.(type) {
		case Result:
			r.logger.Debugw("Collected result", "host", s.Host, "grade", v.Grade, "score", v.Score,
				"vulns", v.Vulns, "hstsPreload", v.HSTS.Preload, "hstsIncludeSubDomains", v.HSTS.IncludeSubDomains,
				"hstsIssues", v.HSTS.Issues, "hstsListed", v.HSTS.Listed)
			fmt.Fprintf(progress, "done.\n")
		case Failure:
			r.logger.Infow("Site not rated", "host", s.Host, "message", v.Message)
			fmt.Fprintf(progress, "failed (%s).\n", v.Message)
		}
	}
	return nil
}

// fetchPreloadIndex fetches the Chromium preload list. The list is
// informational, so a failure is logged and yields nil.
func (r Runner) fetchPreloadIndex() preloadIndex {
	list, err := r.preloadlist.NewFromLatest()
	if err != nil {
		r.logger.Warnw("Could not retrieve the HSTS preload list", "error", err)
		return nil
	}
	r.logger.Debugw("Retrieved the HSTS preload list", "entries", len(list.Entries))
	return newPreloadIndex(list)
}

// collect fetches both reports of s, SSL Labs first.
func (r Runner) collect(ctx context.Context, s site.Site) (Outcome, error) {
	ip, err := r.address(ctx, s.Host)
	if err != nil {
		return nil, err
	}

	endpoint, err := r.labs.EndpointData(ctx, s.Host, ip)
	if err != nil {
		return nil, fmt.Errorf("SSL Labs getEndpointData %s: %w", s.Host, err)
	}

	obs, err := r.obs.Result(ctx, s.Host)
	if err != nil {
		return nil, fmt.Errorf("Observatory analyze %s: %w", s.Host, err)
	}

	return Normalize(s, endpoint, obs, r.opts.Incomplete), nil
}

// address returns the address SSL Labs assessed for host, preferring IPv4.
func (r Runner) address(ctx context.Context, host string) (string, error) {
	addrs, err := r.resolver.LookupHost(ctx, host)
	if err != nil {
		return "", fmt.Errorf("could not resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("could not resolve %s: %w", host, errNoAddress)
	}

	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return a, nil
		}
	}
	return addrs[0], nil
}

var errNoAddress = errors.New("no addresses")

// siteLocal reports whether err only concerns the report of one site, such
// as a payload that does not have the expected shape. Such errors never
// abort a run.
func siteLocal(err error) bool {
	var shapeErr *ratings.ShapeError
	return errors.As(err, &shapeErr)
}
