package scan

import (
	"github.com/chromium/hstspreload"

	"github.com/sslratings/sslratings/ratings/observatory"
	"github.com/sslratings/sslratings/ratings/ssllabs"
	"github.com/sslratings/sslratings/site"
)

const (
	completeProgress   = 100
	sha1WithRSA        = "SHA1withRSA"
	extendedValidation = "E"
)

// Normalize turns the SSL Labs endpoint report and the Observatory scan of s
// into an Outcome.
//
// The endpoint report must be complete (progress 100); otherwise the result
// is a Failure carrying the first SSL Labs error message, if there is one.
// An unfinished Observatory scan is handled according to policy.
//
// Absent optional fields never cause a Failure; each criterion falls back to
// its default.
func Normalize(s site.Site, endpoint ssllabs.Endpoint, obs observatory.Scan, policy IncompletePolicy) Outcome {
	if endpoint.Progress == nil || *endpoint.Progress != completeProgress {
		msg, _ := ssllabs.FirstError(endpoint.Errors)
		return Failure{Site: s, Message: msg}
	}

	score := ScoreUnavailable
	if obs.Finished() && obs.Score != nil {
		score = *obs.Score
	} else if policy == FailSite {
		return Failure{Site: s, Message: observatoryStatus(obs)}
	}

	d := ssllabs.Details{}
	if endpoint.Details != nil {
		d = *endpoint.Details
	}

	sslv3 := false
	tls12 := false
	for _, p := range d.Protocols {
		if p.Name == "SSL" {
			sslv3 = true
		}
		if p.ID == ssllabs.ProtocolTLS12 {
			tls12 = true
		}
	}

	var sigAlg, validationType string
	if d.Cert != nil {
		sigAlg = stringOr(d.Cert.SigAlg, "")
		validationType = stringOr(d.Cert.ValidationType, "")
	}

	fs := intOr(d.ForwardSecrecy, 0)
	sts := stringOr(d.STSResponseHeader, "")

	return Result{
		Site:  s,
		Grade: endpoint.Grade,
		Score: score,
		Vulns: vulns(d),

		SSLv3Disabled:   !sslv3,
		TLSv12Supported: tls12,
		CertNotSHA1:     sigAlg != sha1WithRSA,
		RC4Disabled:     !boolOr(d.SupportsRC4, false),
		ForwardSecrecy:  fs == 2 || fs == 4,
		FallbackSCSV:    boolOr(d.FallbackSCSV, false),
		HSTSSent:        sts != "",
		CertEV:          validationType == extendedValidation,

		HSTS: hstsPolicy(sts),
	}
}

// vulns returns the labels of the vulnerabilities d reports, always in the
// same order.
func vulns(d ssllabs.Details) []string {
	checks := []struct {
		label      string
		vulnerable bool
	}{
		{VulnPOODLE, boolOr(d.Poodle, false)},
		{VulnPOODLETLS, intOr(d.PoodleTLS, 0) == 2},
		{VulnHeartbleed, boolOr(d.Heartbleed, false)},
		{VulnFREAK, boolOr(d.Freak, false)},
		{VulnLogjam, boolOr(d.Logjam, false)},
		{VulnBEAST, boolOr(d.VulnBeast, false)},
		{VulnCCSInjection, intOr(d.OpenSSLCCS, 0) >= 2},
		{VulnLuckyMinus20, intOr(d.OpenSSLLuckyMinus20, 0) == 2},
		{VulnDROWN, boolOr(d.DrownVulnerable, false)},
	}

	found := []string{}
	for _, c := range checks {
		if c.vulnerable {
			found = append(found, c.label)
		}
	}
	return found
}

func hstsPolicy(header string) HSTSPolicy {
	if header == "" {
		return HSTSPolicy{}
	}
	h, issues := hstspreload.ParseHeaderString(header)
	return HSTSPolicy{
		IncludeSubDomains: h.IncludeSubDomains,
		Preload:           h.Preload,
		Issues:            len(issues.Errors),
	}
}

// observatoryStatus describes an Observatory scan that has no usable score.
func observatoryStatus(obs observatory.Scan) string {
	switch {
	case obs.Finished():
		return "Observatory: no score"
	case obs.State != nil && *obs.State != "":
		return "Observatory: " + *obs.State
	case obs.Error != nil && *obs.Error != "":
		return "Observatory: " + *obs.Error
	default:
		return "Observatory: Unknown"
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
