package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/sethvargo/go-retry"
	"github.com/tmc/langchaingo/llms"
)

const defaultCallTimeout = 2 * time.Minute

// LangChainAdapter adapts langchaingo models to the Client interface.
// Retries and the per-call wall-clock timeout live here: the summarization
// pipeline above this layer never retries and treats every invocation error
// as fatal for the run.
type LangChainAdapter struct {
	model      llms.Model
	config     core.ProviderConfig
	timeout    time.Duration
	maxRetries uint64
}

// NewLangChainAdapter wraps a langchaingo model with the request shaping,
// timeout, and retry policy used by every pipeline stage.
func NewLangChainAdapter(model llms.Model, config *core.ProviderConfig, timeout time.Duration, maxRetries int) *LangChainAdapter {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &LangChainAdapter{
		model:      model,
		config:     *config,
		timeout:    timeout,
		maxRetries: uint64(maxRetries),
	}
}

// GenerateContent implements Client
func (a *LangChainAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	messages := a.convertMessages(req)
	options := a.buildCallOptions(req)

	var response *llms.ContentResponse
	backoff := retry.WithMaxRetries(a.maxRetries, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		resp, err := a.model.GenerateContent(callCtx, messages, options...)
		if err != nil {
			return retry.RetryableError(err)
		}
		response = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s GenerateContent failed: %w", a.config.Provider, err)
	}
	return a.convertResponse(response)
}

func (a *LangChainAdapter) convertMessages(req *Request) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))
	return messages
}

func (a *LangChainAdapter) buildCallOptions(req *Request) []llms.CallOption {
	var options []llms.CallOption
	if a.config.Temperature > 0 {
		options = append(options, llms.WithTemperature(a.config.Temperature))
	}
	if a.config.MaxTokens > 0 {
		options = append(options, llms.WithMaxTokens(a.config.MaxTokens))
	}
	if req.JSONMode {
		options = append(options, llms.WithJSONMode())
	}
	return options
}

func (a *LangChainAdapter) convertResponse(resp *llms.ContentResponse) (*Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from LLM")
	}
	return &Response{Content: resp.Choices[0].Content}, nil
}
