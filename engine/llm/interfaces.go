package llm

import (
	"context"

	"github.com/compozy/standup-digest/engine/core"
)

// Request is a single prompt issued to the model.
type Request struct {
	SystemPrompt string
	Prompt       string
	JSONMode     bool
}

// Response carries the model's text output.
type Response struct {
	Content string
}

// Client is the minimal text-completion surface the summarization pipeline
// depends on. Implementations are safe for concurrent use after construction.
type Client interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
}

// Factory creates clients from provider configurations. Unsupported
// (provider, model) pairs are rejected at construction time, not at first use.
type Factory interface {
	CreateClient(ctx context.Context, config *core.ProviderConfig) (Client, error)
}
