package cli

import (
	"context"
	"fmt"

	"github.com/compozy/standup-digest/engine/infra/monitoring"
	"github.com/compozy/standup-digest/engine/llm"
	"github.com/compozy/standup-digest/engine/orchestrator"
	"github.com/compozy/standup-digest/engine/publish"
	"github.com/compozy/standup-digest/engine/source"
	"github.com/compozy/standup-digest/engine/summarize"
	"github.com/compozy/standup-digest/pkg/config"
)

// buildOrchestrator assembles the report pipeline from configuration. At
// least one source must be configured or there is nothing to report on.
func buildOrchestrator(
	ctx context.Context,
	cfg *config.Config,
	mon *monitoring.Service,
) (*orchestrator.Orchestrator, error) {
	var sources []source.Source
	if cfg.Slack.Token != "" && cfg.Slack.Channel != "" {
		sources = append(sources, source.NewSlackSource(cfg.Slack.Token, cfg.Slack.APIURL, cfg.Slack.Channel))
	}
	if cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		sources = append(sources, source.NewGitHubSource(ctx, cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured: set slack channel or github repo settings")
	}

	var publisher publish.Publisher
	if cfg.Publish.Enabled {
		if cfg.Publish.APIURL == "" || cfg.Publish.TemplateID == "" {
			return nil, fmt.Errorf("publishing is enabled but api_url or template_id is missing")
		}
		publisher = publish.NewTemplatePublisher(cfg.Publish.APIURL, cfg.Publish.Token, cfg.Publish.TemplateID)
	}

	metrics := summarize.NopMetrics()
	if mon != nil && mon.IsInitialized() {
		var err error
		metrics, err = summarize.NewMetrics(mon.Meter())
		if err != nil {
			return nil, fmt.Errorf("failed to create summarize metrics: %w", err)
		}
	}

	factory := llm.NewDefaultFactory(cfg.LLM.RequestTimeout, cfg.LLM.MaxRetries)
	return orchestrator.New(cfg, factory, sources, publisher, metrics)
}
