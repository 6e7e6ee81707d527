package scan

import "fmt"

// IncompletePolicy decides what happens to a site whose SSL Labs assessment
// finished but whose Observatory scan did not.
type IncompletePolicy int

const (
	// ReportScoreUnavailable still produces a Result, with Score set to
	// ScoreUnavailable.
	ReportScoreUnavailable IncompletePolicy = iota
	// FailSite produces a Failure for the site.
	FailSite
)

var incompletePolicyNames = []string{"score-unavailable", "fail-host"}

func (p IncompletePolicy) String() string {
	return incompletePolicyNames[p]
}

// ParseIncompletePolicy parses the String() form of an IncompletePolicy.
func ParseIncompletePolicy(s string) (IncompletePolicy, error) {
	for i, name := range incompletePolicyNames {
		if s == name {
			return IncompletePolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown incomplete scan policy %q (want one of %v)", s, incompletePolicyNames)
}

// ServiceErrorPolicy decides what happens when a call to a rating service
// fails outright, i.e. on a transport or decode error.
type ServiceErrorPolicy int

const (
	// AbortRun stops the run and returns the error.
	AbortRun ServiceErrorPolicy = iota
	// SkipSite records a Failure for the site and moves on.
	SkipSite
)

var serviceErrorPolicyNames = []string{"abort", "skip"}

func (p ServiceErrorPolicy) String() string {
	return serviceErrorPolicyNames[p]
}

// ParseServiceErrorPolicy parses the String() form of a ServiceErrorPolicy.
func ParseServiceErrorPolicy(s string) (ServiceErrorPolicy, error) {
	for i, name := range serviceErrorPolicyNames {
		if s == name {
			return ServiceErrorPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown service error policy %q (want one of %v)", s, serviceErrorPolicyNames)
}
