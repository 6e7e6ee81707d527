package ssllabs

import (
	"context"
	"errors"
	"fmt"
)

// Mock is a very simple Mock for the SSL Labs API.
type Mock struct {
	hosts     map[string]Host
	endpoints map[string]Endpoint
	// This is a pointer so that we can pass around a Mock but continue
	// to control its behaviour.
	state *MockState
}

// MockState keeps track of mocking behaviour.
type MockState struct {
	FailCalls bool
	// Info is returned by the info operation.
	Info Info
	// Calls records every operation in the order it was made, e.g.
	// "analyze example.com off 12".
	Calls []string
}

// NewMock constructs a new mock, along with a MockState pointer to
// control the behaviour of the new Mock.
func NewMock() (m Mock, ms *MockState) {
	ms = &MockState{}
	m = Mock{
		hosts:     map[string]Host{},
		endpoints: map[string]Endpoint{},
		state:     ms,
	}
	return m, ms
}

// SetHost sets the analyze response for host.
func (m Mock) SetHost(host string, h Host) {
	m.hosts[host] = h
}

// SetEndpoint sets the getEndpointData response for host.
func (m Mock) SetEndpoint(host string, e Endpoint) {
	m.endpoints[host] = e
}

// Analyze mock method
func (m Mock) Analyze(ctx context.Context, host string, publish string, maxAge int) (Host, error) {
	m.state.Calls = append(m.state.Calls, fmt.Sprintf("analyze %s %s %d", host, publish, maxAge))
	if m.state.FailCalls {
		return Host{}, errors.New("forced failure")
	}
	return m.hosts[host], nil
}

// EndpointData mock method
func (m Mock) EndpointData(ctx context.Context, host string, ip string) (Endpoint, error) {
	m.state.Calls = append(m.state.Calls, "getEndpointData "+host+" "+ip)
	if m.state.FailCalls {
		return Endpoint{}, errors.New("forced failure")
	}
	return m.endpoints[host], nil
}

// Info mock method
func (m Mock) Info(ctx context.Context) (Info, error) {
	m.state.Calls = append(m.state.Calls, "info")
	if m.state.FailCalls {
		return Info{}, errors.New("forced failure")
	}
	return m.state.Info, nil
}
