package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	LLM        LLMConfig        `koanf:"llm"        validate:"required"`
	Summarize  SummarizeConfig  `koanf:"summarize"  validate:"required"`
	Slack      SlackConfig      `koanf:"slack"`
	GitHub     GitHubConfig     `koanf:"github"`
	Publish    PublishConfig    `koanf:"publish"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"    validate:"gt=0,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// LLMConfig holds the default model provider settings. Per-request values in
// the API override these.
type LLMConfig struct {
	Provider       string        `koanf:"provider"        validate:"required"`
	Model          string        `koanf:"model"           validate:"required"`
	APIKey         string        `koanf:"api_key"`
	APIURL         string        `koanf:"api_url"`
	Temperature    float64       `koanf:"temperature"     validate:"gte=0,lte=1"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	MaxRetries     int           `koanf:"max_retries"     validate:"gte=0"`
}

// SummarizeConfig drives the token accounting of the summarization pipeline.
type SummarizeConfig struct {
	ChunkSize         int `koanf:"chunk_size"          validate:"gt=0"`
	ChunkOverlap      int `koanf:"chunk_overlap"       validate:"gte=0"`
	MaxTokens         int `koanf:"max_tokens"          validate:"gt=0"`
	StuffThreshold    int `koanf:"stuff_threshold"     validate:"gt=0"`
	MaxCollapseRounds int `koanf:"max_collapse_rounds" validate:"gt=0"`
	Concurrency       int `koanf:"concurrency"         validate:"gt=0"`
}

// SlackConfig configures the standup message source.
type SlackConfig struct {
	Token   string `koanf:"token"`
	APIURL  string `koanf:"api_url"`
	Channel string `koanf:"channel"`
}

// GitHubConfig configures the issue tracker source.
type GitHubConfig struct {
	Token string `koanf:"token"`
	Owner string `koanf:"owner"`
	Repo  string `koanf:"repo"`
}

// PublishConfig configures the optional document publisher.
type PublishConfig struct {
	Enabled    bool   `koanf:"enabled"`
	APIURL     string `koanf:"api_url"`
	Token      string `koanf:"token"`
	TemplateID string `koanf:"template_id"`
}

// MonitoringConfig configures the Prometheus metrics endpoint.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default returns the baseline configuration. Environment variables with the
// DIGEST_ prefix override individual fields.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o",
			Temperature:    0.2,
			RequestTimeout: 2 * time.Minute,
			MaxRetries:     3,
		},
		Summarize: SummarizeConfig{
			// Large map chunks keep the round-trip count low; reducing is
			// cheaper and more coherent than summarizing many tiny pieces.
			ChunkSize:         12000,
			ChunkOverlap:      0,
			MaxTokens:         4000,
			StuffThreshold:    8000,
			MaxCollapseRounds: 5,
			Concurrency:       4,
		},
		Slack: SlackConfig{
			APIURL: "https://slack.com/api",
		},
		Monitoring: MonitoringConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
