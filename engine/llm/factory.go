package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/compozy/standup-digest/engine/core"
)

// DefaultFactory is the default implementation of the Factory interface
type DefaultFactory struct {
	timeout    time.Duration
	maxRetries int
}

// NewDefaultFactory creates a factory whose clients share the given per-call
// timeout and retry policy.
func NewDefaultFactory(timeout time.Duration, maxRetries int) Factory {
	return &DefaultFactory{timeout: timeout, maxRetries: maxRetries}
}

// CreateClient creates a new Client for the given provider
func (f *DefaultFactory) CreateClient(ctx context.Context, config *core.ProviderConfig) (Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider == core.ProviderMock {
		return NewMockClient(config.Model), nil
	}
	model, err := createLLM(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM model: %w", err)
	}
	return NewLangChainAdapter(model, config, f.timeout, f.maxRetries), nil
}
