package llm

import (
	"context"
	"fmt"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// createLLM creates a langchaingo model instance for the provider configuration.
func createLLM(ctx context.Context, p *core.ProviderConfig) (llms.Model, error) {
	switch p.Provider {
	case core.ProviderOpenAI:
		return createOpenAILLM(p)
	case core.ProviderAnthropic:
		return createAnthropicLLM(p)
	case core.ProviderGroq:
		return createGroqLLM(p)
	case core.ProviderGoogle:
		return createGoogleLLM(ctx, p)
	case core.ProviderOllama:
		return createOllamaLLM(p)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.Provider)
	}
}

// createOpenAILLM creates an OpenAI LLM instance
func createOpenAILLM(p *core.ProviderConfig) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, openai.WithToken(p.APIKey))
	}
	if p.APIURL != "" {
		opts = append(opts, openai.WithBaseURL(p.APIURL))
	}
	return openai.New(opts...)
}

// createAnthropicLLM creates an Anthropic LLM instance
func createAnthropicLLM(p *core.ProviderConfig) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, anthropic.WithToken(p.APIKey))
	}
	if p.APIURL != "" {
		opts = append(opts, anthropic.WithBaseURL(p.APIURL))
	}
	return anthropic.New(opts...)
}

// createGroqLLM creates a Groq LLM instance through the OpenAI-compatible API
func createGroqLLM(p *core.ProviderConfig) (llms.Model, error) {
	baseURL := groqBaseURL
	if p.APIURL != "" {
		baseURL = p.APIURL
	}
	opts := []openai.Option{
		openai.WithModel(p.Model),
		openai.WithBaseURL(baseURL),
	}
	if p.APIKey != "" {
		opts = append(opts, openai.WithToken(p.APIKey))
	}
	return openai.New(opts...)
}

// createGoogleLLM creates a Google AI LLM instance
func createGoogleLLM(ctx context.Context, p *core.ProviderConfig) (llms.Model, error) {
	opts := []googleai.Option{
		googleai.WithDefaultModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, googleai.WithAPIKey(p.APIKey))
	}
	if p.APIURL != "" {
		return nil, fmt.Errorf("googleai does not support custom API URL")
	}
	return googleai.New(ctx, opts...)
}

// createOllamaLLM creates an Ollama LLM instance
func createOllamaLLM(p *core.ProviderConfig) (llms.Model, error) {
	opts := []ollama.Option{
		ollama.WithModel(p.Model),
	}
	if p.APIURL != "" {
		opts = append(opts, ollama.WithServerURL(p.APIURL))
	}
	return ollama.New(opts...)
}
