package core

import "fmt"

// ProviderName represents the name of a model provider
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGroq      ProviderName = "groq"
	ProviderGoogle    ProviderName = "google"
	ProviderOllama    ProviderName = "ollama"
	ProviderMock      ProviderName = "mock" // Mock provider for testing
)

// ProviderConfig represents provider-specific configuration options
type ProviderConfig struct {
	Provider    ProviderName `json:"provider"    yaml:"provider"`
	Model       string       `json:"model"       yaml:"model"`
	APIKey      string       `json:"api_key"     yaml:"api_key"`
	APIURL      string       `json:"api_url"     yaml:"api_url"`
	Temperature float64      `json:"temperature" yaml:"temperature"`
	MaxTokens   int          `json:"max_tokens"  yaml:"max_tokens"`
}

// NewProviderConfig creates a new ProviderConfig for the given provider and model
func NewProviderConfig(provider ProviderName, model string, apiKey string) *ProviderConfig {
	return &ProviderConfig{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
	}
}

// Validate rejects incomplete or out-of-range provider settings before any
// model call is attempted.
func (p *ProviderConfig) Validate() error {
	if p == nil {
		return fmt.Errorf("provider config must not be nil")
	}
	switch p.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGroq, ProviderGoogle, ProviderOllama, ProviderMock:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
	if p.Model == "" {
		return fmt.Errorf("model is required for provider %s", p.Provider)
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("temperature %.2f is out of range [0.0, 1.0]", p.Temperature)
	}
	return nil
}
