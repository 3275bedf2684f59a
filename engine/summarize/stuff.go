package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/compozy/standup-digest/engine/llm"
)

// StuffSummarizer concatenates every document into the final prompt's context
// slot, in input order, and issues exactly one model call. It enforces no
// token budget of its own: callers invoke it only after the selector has
// determined the combined count fits. Invocation errors propagate unchanged;
// retries belong to the model client, not here.
type StuffSummarizer struct {
	client  llm.Client
	metrics *Metrics
}

// NewStuffSummarizer creates a single-pass summarizer.
func NewStuffSummarizer(client llm.Client, metrics *Metrics) *StuffSummarizer {
	return &StuffSummarizer{client: client, metrics: metrics}
}

// Summarize returns the model's raw output for the stuffed prompt.
func (s *StuffSummarizer) Summarize(ctx context.Context, docs []core.Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoDocuments
	}
	prompt, err := formatPrompt(finalPrompt, docs)
	if err != nil {
		return "", fmt.Errorf("failed to format stuff prompt: %w", err)
	}
	s.metrics.recordCall(ctx, stageStuff)
	resp, err := s.client.GenerateContent(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		JSONMode:     true,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("failed to generate final summary: empty model output")
	}
	return resp.Content, nil
}
