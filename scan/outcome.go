// Package scan drives the rating services for each site and normalizes their
// reports into one comparable record per site.
package scan

import (
	"github.com/sslratings/sslratings/site"
)

// ScoreUnavailable is the Score of a Result whose Observatory scan did not
// finish.
const ScoreUnavailable = -1

// Vulnerability labels, in the order they are checked.
const (
	VulnPOODLE       = "POODLE"
	VulnPOODLETLS    = "POODLE-TLS"
	VulnHeartbleed   = "Heartbleed"
	VulnFREAK        = "FREAK"
	VulnLogjam       = "Logjam"
	VulnBEAST        = "BEAST"
	VulnCCSInjection = "CCS-Injection"
	VulnLuckyMinus20 = "Lucky-Minus-20"
	VulnDROWN        = "DROWN"
)

// An Outcome is either a Result or a Failure. Exactly one is produced per
// site and collect cycle.
type Outcome interface {
	target() site.Site
}

// SiteOf returns the site an outcome belongs to.
func SiteOf(o Outcome) site.Site {
	return o.target()
}

// Failure records that a site could not be rated.
type Failure struct {
	Site site.Site
	// Message is the upstream error message. It may be empty.
	Message string
}

func (f Failure) target() site.Site { return f.Site }

// Result is the normalized rating of one site.
type Result struct {
	Site site.Site

	// Grade is the SSL Labs letter grade.
	Grade string
	// Score is the Observatory score (0-100), or ScoreUnavailable.
	Score int
	// Vulns lists the detected vulnerabilities in check order.
	Vulns []string

	SSLv3Disabled   bool
	TLSv12Supported bool
	CertNotSHA1     bool
	RC4Disabled     bool
	ForwardSecrecy  bool
	FallbackSCSV    bool
	HSTSSent        bool
	CertEV          bool

	// HSTS describes the Strict-Transport-Security header, if one was sent.
	HSTS HSTSPolicy
}

func (r Result) target() site.Site { return r.Site }

// HSTSPolicy is the parsed Strict-Transport-Security header of a site.
type HSTSPolicy struct {
	IncludeSubDomains bool
	Preload           bool
	// Issues counts the header parse errors.
	Issues int
	// Listed reports whether the host is on the Chromium preload list. It
	// is only set when the list was checked.
	Listed bool
}

// HasVuln reports whether label is among the detected vulnerabilities.
func (r Result) HasVuln(label string) bool {
	for _, v := range r.Vulns {
		if v == label {
			return true
		}
	}
	return false
}

// legacyVulns maps the criteria older reports carried as booleans to the
// labels that fail them.
var legacyVulns = map[string][]string{
	VulnPOODLE:     {VulnPOODLE, VulnPOODLETLS},
	VulnHeartbleed: {VulnHeartbleed},
	VulnFREAK:      {VulnFREAK},
	VulnLogjam:     {VulnLogjam},
}

// LegacyPass reports whether the site passes one of the POODLE, Heartbleed,
// FREAK or Logjam criteria of the legacy report layout.
func (r Result) LegacyPass(criterion string) bool {
	for _, label := range legacyVulns[criterion] {
		if r.HasVuln(label) {
			return false
		}
	}
	return true
}
