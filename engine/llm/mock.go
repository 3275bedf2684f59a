package llm

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockClient is a deterministic Client for tests and local dry runs. When a
// script is set, responses are returned in order; otherwise every call echoes
// the prompt. Call counting is safe under the map stage's concurrent fan-out.
type MockClient struct {
	model  string
	script []string
	calls  atomic.Int64
}

// NewMockClient creates a mock that echoes prompts.
func NewMockClient(model string) *MockClient {
	return &MockClient{model: model}
}

// NewScriptedClient creates a mock that replays the given responses in call
// order and fails once the script is exhausted.
func NewScriptedClient(responses ...string) *MockClient {
	return &MockClient{model: "scripted", script: responses}
}

// GenerateContent implements Client
func (m *MockClient) GenerateContent(_ context.Context, req *Request) (*Response, error) {
	n := m.calls.Add(1)
	if m.script != nil {
		if int(n) > len(m.script) {
			return nil, fmt.Errorf("mock script exhausted after %d calls", len(m.script))
		}
		return &Response{Content: m.script[n-1]}, nil
	}
	return &Response{Content: fmt.Sprintf("Mock response for: %s", req.Prompt)}, nil
}

// Calls returns how many times the mock was invoked.
func (m *MockClient) Calls() int {
	return int(m.calls.Load())
}
