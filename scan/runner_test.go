package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/chromium/hstspreload/chromium/preloadlist"
	"go.uber.org/zap/zaptest"

	"github.com/sslratings/sslratings/ratings"
	"github.com/sslratings/sslratings/ratings/observatory"
	"github.com/sslratings/sslratings/ratings/ssllabs"
	"github.com/sslratings/sslratings/site"
)

var (
	siteA = site.Site{Name: "Alpha", Host: "a.test", Icon: "https://a.test/favicon.ico"}
	siteB = site.Site{Name: "Beta", Host: "b.test", Icon: "https://b.test/favicon.ico"}
)

type fakeResolver map[string][]string

func (f fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	addrs, ok := f[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

type fakeSink struct {
	outcomes []Outcome
	err      error
}

func (s *fakeSink) Write(o Outcome) error {
	if s.err != nil {
		return s.err
	}
	s.outcomes = append(s.outcomes, o)
	return nil
}

func newTestRunner(t *testing.T, opts Options) (Runner, ssllabs.Mock, *ssllabs.MockState, observatory.Mock, *observatory.MockState) {
	labs, labsState := ssllabs.NewMock()
	obs, obsState := observatory.NewMock()
	resolver := fakeResolver{
		"a.test": {"2001:db8::1", "192.0.2.1"},
		"b.test": {"2001:db8::2"},
	}
	r := New(labs, obs, resolver, opts, zaptest.NewLogger(t).Sugar())
	return r, labs, labsState, obs, obsState
}

func TestStart(t *testing.T) {
	r, labs, _, obs, _ := newTestRunner(t, DefaultOptions())
	labs.SetHost("a.test", ssllabs.Host{Status: "READY", StatusMessage: stringPtr("Ready")})
	obs.SetScan("a.test", finished(90))
	labs.SetHost("b.test", ssllabs.Host{Status: "IN_PROGRESS", StatusMessage: stringPtr("In progress")})

	var out bytes.Buffer
	if err := r.Start(context.Background(), []site.Site{siteA, siteB}, &out); err != nil {
		t.Fatalf("%s", err)
	}

	expected := "processing Alpha: Report ready.\nprocessing Beta: In progress...\n"
	if out.String() != expected {
		t.Errorf("Unexpected output:\n%q\nwanted:\n%q", out.String(), expected)
	}
}

func TestStartServiceError(t *testing.T) {
	opts := DefaultOptions()

	r, _, labsState, _, _ := newTestRunner(t, opts)
	labsState.FailCalls = true
	var out bytes.Buffer
	if err := r.Start(context.Background(), []site.Site{siteA, siteB}, &out); err == nil {
		t.Error("abort policy should return the error")
	}
	if len(labsState.Calls) != 1 {
		t.Errorf("run should stop at the first site, calls: %v", labsState.Calls)
	}

	opts.OnServiceError = SkipSite
	r, _, labsState, _, _ = newTestRunner(t, opts)
	labsState.FailCalls = true
	out.Reset()
	if err := r.Start(context.Background(), []site.Site{siteA, siteB}, &out); err != nil {
		t.Errorf("skip policy should not return an error: %s", err)
	}
	if len(labsState.Calls) != 2 {
		t.Errorf("every site should be tried, calls: %v", labsState.Calls)
	}
	expected := "processing Alpha: failed (SSL Labs analyze a.test: forced failure).\n" +
		"processing Beta: failed (SSL Labs analyze b.test: forced failure).\n"
	if out.String() != expected {
		t.Errorf("Unexpected output:\n%q", out.String())
	}
}

func TestInfo(t *testing.T) {
	r, _, labsState, _, _ := newTestRunner(t, DefaultOptions())
	labsState.Info = ssllabs.Info{CurrentAssessments: 3, MaxAssessments: 25}

	var out bytes.Buffer
	if err := r.Info(context.Background(), &out); err != nil {
		t.Fatalf("%s", err)
	}
	if out.String() != "assessments: 3/25\n" {
		t.Errorf("Unexpected output: %q", out.String())
	}

	labsState.Info = ssllabs.Info{Errors: []ssllabs.Error{{Message: "Running at full capacity"}}}
	if err := r.Info(context.Background(), &out); err == nil {
		t.Error("info errors should be returned")
	}

	labsState.FailCalls = true
	if err := r.Info(context.Background(), &out); err == nil {
		t.Error("service failure should be returned")
	}
}

func TestCollect(t *testing.T) {
	r, labs, labsState, obs, obsState := newTestRunner(t, DefaultOptions())
	labs.SetEndpoint("a.test", complete(goodDetails()))
	obs.SetScan("a.test", finished(90))
	labs.SetEndpoint("b.test", ssllabs.Endpoint{Progress: intPtr(-1), Errors: []ssllabs.Error{{Message: "Assessment failed"}}})

	var sink fakeSink
	var progress bytes.Buffer
	if err := r.Collect(context.Background(), []site.Site{siteA, siteB}, &sink, &progress); err != nil {
		t.Fatalf("%s", err)
	}

	if len(sink.outcomes) != 2 {
		t.Fatalf("Unexpected number of outcomes: %d", len(sink.outcomes))
	}
	if res, ok := sink.outcomes[0].(Result); !ok || res.Site != siteA || res.Score != 90 {
		t.Errorf("Unexpected first outcome: %#v", sink.outcomes[0])
	}
	if !reflect.DeepEqual(sink.outcomes[1], Failure{Site: siteB, Message: "Assessment failed"}) {
		t.Errorf("Unexpected second outcome: %#v", sink.outcomes[1])
	}

	expectedProgress := "processing Alpha: done.\nprocessing Beta: failed (Assessment failed).\n"
	if progress.String() != expectedProgress {
		t.Errorf("Unexpected progress:\n%q", progress.String())
	}

	// IPv4 is preferred; a host without one uses its first address.
	expectedCalls := []string{"getEndpointData a.test 192.0.2.1", "getEndpointData b.test 2001:db8::2"}
	if !reflect.DeepEqual(labsState.Calls, expectedCalls) {
		t.Errorf("Unexpected SSL Labs calls: %v", labsState.Calls)
	}
	if !reflect.DeepEqual(obsState.Calls, []string{"result a.test", "result b.test"}) {
		t.Errorf("Unexpected Observatory calls: %v", obsState.Calls)
	}
}

func TestCollectWithoutProgress(t *testing.T) {
	r, labs, _, obs, _ := newTestRunner(t, DefaultOptions())
	labs.SetEndpoint("a.test", complete(goodDetails()))
	obs.SetScan("a.test", finished(90))

	var sink fakeSink
	if err := r.Collect(context.Background(), []site.Site{siteA}, &sink, nil); err != nil {
		t.Fatalf("%s", err)
	}
	if len(sink.outcomes) != 1 {
		t.Errorf("Unexpected number of outcomes: %d", len(sink.outcomes))
	}
}

func TestCollectServiceError(t *testing.T) {
	unresolvable := site.Site{Name: "Gamma", Host: "c.test"}
	sites := []site.Site{unresolvable, siteA}

	r, labs, _, obs, _ := newTestRunner(t, DefaultOptions())
	labs.SetEndpoint("a.test", complete(goodDetails()))
	obs.SetScan("a.test", finished(90))

	var sink fakeSink
	if err := r.Collect(context.Background(), sites, &sink, nil); err == nil {
		t.Error("abort policy should return the error")
	}
	if len(sink.outcomes) != 0 {
		t.Errorf("nothing should be written for an aborted site: %v", sink.outcomes)
	}

	opts := DefaultOptions()
	opts.OnServiceError = SkipSite
	r, labs, _, obs, obsState := newTestRunner(t, opts)
	labs.SetEndpoint("a.test", complete(goodDetails()))
	obs.SetScan("a.test", finished(90))

	sink = fakeSink{}
	if err := r.Collect(context.Background(), sites, &sink, nil); err != nil {
		t.Fatalf("skip policy should not return an error: %s", err)
	}
	if len(sink.outcomes) != 2 {
		t.Fatalf("Unexpected number of outcomes: %d", len(sink.outcomes))
	}
	if f, ok := sink.outcomes[0].(Failure); !ok || f.Site != unresolvable || f.Message == "" {
		t.Errorf("Unexpected first outcome: %#v", sink.outcomes[0])
	}
	if _, ok := sink.outcomes[1].(Result); !ok {
		t.Errorf("Unexpected second outcome: %#v", sink.outcomes[1])
	}

	obsState.FailCalls = true
	sink = fakeSink{}
	if err := r.Collect(context.Background(), []site.Site{siteA}, &sink, nil); err != nil {
		t.Fatalf("%s", err)
	}
	expected := Failure{Site: siteA, Message: "Observatory analyze a.test: forced failure"}
	if !reflect.DeepEqual(sink.outcomes, []Outcome{expected}) {
		t.Errorf("Unexpected outcomes: %#v", sink.outcomes)
	}
}

func TestCollectSinkError(t *testing.T) {
	opts := DefaultOptions()
	opts.OnServiceError = SkipSite
	r, _, _, _, _ := newTestRunner(t, opts)

	sink := fakeSink{err: errors.New("disk full")}
	if err := r.Collect(context.Background(), []site.Site{siteA}, &sink, nil); err == nil {
		t.Error("a sink failure should always stop the run")
	}
}

func TestCollectPreloadList(t *testing.T) {
	opts := DefaultOptions()
	opts.CheckPreloadList = true
	r, labs, _, obs, _ := newTestRunner(t, opts)
	for _, host := range []string{"a.test", "b.test"} {
		labs.SetEndpoint(host, complete(goodDetails()))
		obs.SetScan(host, finished(90))
	}
	r.preloadlist = mockPreloadlist{list: preloadlist.PreloadList{Entries: []preloadlist.Entry{
		{Name: "a.test", Mode: preloadlist.ForceHTTPS},
	}}}

	var sink fakeSink
	if err := r.Collect(context.Background(), []site.Site{siteA, siteB}, &sink, nil); err != nil {
		t.Fatalf("%s", err)
	}
	if !sink.outcomes[0].(Result).HSTS.Listed {
		t.Error("a.test should be listed")
	}
	if sink.outcomes[1].(Result).HSTS.Listed {
		t.Error("b.test should not be listed")
	}

	// The list is informational.
	r.preloadlist = mockPreloadlist{failCalls: true}
	sink = fakeSink{}
	if err := r.Collect(context.Background(), []site.Site{siteA}, &sink, nil); err != nil {
		t.Fatalf("%s", err)
	}
	if sink.outcomes[0].(Result).HSTS.Listed {
		t.Error("nothing is listed without a preload list")
	}
}

func TestPreloadIndex(t *testing.T) {
	idx := newPreloadIndex(preloadlist.PreloadList{Entries: []preloadlist.Entry{
		{Name: "example.test", Mode: preloadlist.ForceHTTPS, IncludeSubDomains: true},
		{Name: "plain.test", Mode: preloadlist.ForceHTTPS},
		{Name: "pinned.test", Mode: ""},
	}})

	cases := []struct {
		host     string
		expected bool
	}{
		{"example.test", true},
		{"www.example.test", true},
		{"a.b.example.test", true},
		{"plain.test", true},
		{"www.plain.test", false},
		{"pinned.test", false},
		{"test", false},
		{"other.test", false},
	}

	for _, tt := range cases {
		if got := idx.covers(tt.host); got != tt.expected {
			t.Errorf("%s: got %t, wanted %t", tt.host, got, tt.expected)
		}
	}
}

func TestCollectPayloadShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("host") {
		case "a.test":
			fmt.Fprint(w, `{"progress": 100, "grade": "A", "details": {"forwardSecrecy": "2"}}`)
		default:
			fmt.Fprint(w, `{"progress": 100, "grade": "B", "details": {"forwardSecrecy": 2}}`)
		}
	}))
	defer server.Close()

	labs := ssllabs.New(ratings.New(server.Client(), time.Second), server.URL)
	obs, _ := observatory.NewMock()
	obs.SetScan("b.test", finished(70))
	resolver := fakeResolver{"a.test": {"192.0.2.1"}, "b.test": {"192.0.2.2"}}

	for _, policy := range []ServiceErrorPolicy{AbortRun, SkipSite} {
		opts := DefaultOptions()
		opts.OnServiceError = policy
		r := New(labs, obs, resolver, opts, zaptest.NewLogger(t).Sugar())

		var sink fakeSink
		if err := r.Collect(context.Background(), []site.Site{siteA, siteB}, &sink, nil); err != nil {
			t.Fatalf("[%s] a malformed report should not stop the run: %s", policy, err)
		}
		if len(sink.outcomes) != 2 {
			t.Fatalf("[%s] Unexpected number of outcomes: %d", policy, len(sink.outcomes))
		}
		if f, ok := sink.outcomes[0].(Failure); !ok || f.Site != siteA || f.Message == "" {
			t.Errorf("[%s] Unexpected first outcome: %#v", policy, sink.outcomes[0])
		}
		if res, ok := sink.outcomes[1].(Result); !ok || res.Grade != "B" || res.Score != 70 {
			t.Errorf("[%s] Unexpected second outcome: %#v", policy, sink.outcomes[1])
		}
	}
}
