package observatory

import (
	"context"
	"errors"
	"fmt"
)

// Mock is a very simple Mock for the HTTP Observatory API.
type Mock struct {
	scans map[string]Scan
	state *MockState
}

// MockState keeps track of mocking behaviour.
type MockState struct {
	FailCalls bool
	// Calls records every operation in the order it was made, e.g.
	// "analyze example.com hidden=true".
	Calls []string
}

// NewMock constructs a new mock, along with a MockState pointer to
// control the behaviour of the new Mock.
func NewMock() (m Mock, ms *MockState) {
	ms = &MockState{}
	m = Mock{
		scans: map[string]Scan{},
		state: ms,
	}
	return m, ms
}

// SetScan sets the response of both operations for host.
func (m Mock) SetScan(host string, s Scan) {
	m.scans[host] = s
}

// Analyze mock method
func (m Mock) Analyze(ctx context.Context, host string, hidden bool) (Scan, error) {
	m.state.Calls = append(m.state.Calls, fmt.Sprintf("analyze %s hidden=%t", host, hidden))
	if m.state.FailCalls {
		return Scan{}, errors.New("forced failure")
	}
	return m.scans[host], nil
}

// Result mock method
func (m Mock) Result(ctx context.Context, host string) (Scan, error) {
	m.state.Calls = append(m.state.Calls, "result "+host)
	if m.state.FailCalls {
		return Scan{}, errors.New("forced failure")
	}
	return m.scans[host], nil
}
