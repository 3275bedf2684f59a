package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/compozy/standup-digest/engine/llm"
	"github.com/compozy/standup-digest/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// MapReduceSummarizer reduces an unbounded amount of source text into a
// single summary with a model whose context window is finite. The flow is an
// explicit state machine:
//
//	split -> map (one call per chunk, bounded fan-out) -> collect
//	      -> collapse while the summary set exceeds the token budget
//	      -> final reduce
//
// There is no partial-success mode: a failure in any map, reduce, or final
// call fails the whole invocation.
type MapReduceSummarizer struct {
	client   llm.Client
	counter  TokenCounter
	splitter *Splitter
	opts     Options
	metrics  *Metrics
}

// NewMapReduceSummarizer validates the options and wires the pipeline.
func NewMapReduceSummarizer(
	client llm.Client,
	counter TokenCounter,
	splitter *Splitter,
	opts Options,
	metrics *Metrics,
) (*MapReduceSummarizer, error) {
	if client == nil {
		return nil, fmt.Errorf("client must not be nil")
	}
	if counter == nil {
		return nil, fmt.Errorf("token counter must not be nil")
	}
	if splitter == nil {
		return nil, fmt.Errorf("splitter must not be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &MapReduceSummarizer{
		client:   client,
		counter:  counter,
		splitter: splitter,
		opts:     opts,
		metrics:  metrics,
	}, nil
}

// pipelineState is the accumulator threaded through one invocation. It is
// scoped to that invocation and never shared: summaries only grows until it
// is consumed into the collapsed set, and the collapsed set is replaced
// wholesale on every collapse round.
type pipelineState struct {
	chunks    []core.Document
	summaries []string
	collapsed []core.Document
}

// Summarize runs the full state machine and returns the raw final output.
func (m *MapReduceSummarizer) Summarize(ctx context.Context, docs []core.Document) (string, error) {
	if len(docs) == 0 {
		return "", ErrNoDocuments
	}
	chunks, err := m.splitter.Split(ctx, docs, m.opts.ChunkSize, m.opts.ChunkOverlap)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", ErrNoDocuments
	}
	state := &pipelineState{chunks: chunks}
	if err := m.generateSummaries(ctx, state); err != nil {
		return "", err
	}
	m.collectSummaries(state)
	if err := m.collapseSummaries(ctx, state); err != nil {
		return "", err
	}
	return m.generateFinalSummary(ctx, state)
}

// generateSummaries fans out one map call per chunk. The tasks have no data
// dependency on each other and no ordering guarantee; the join waits for all
// of them, and a single failure fails the run.
func (m *MapReduceSummarizer) generateSummaries(ctx context.Context, state *pipelineState) error {
	state.summaries = make([]string, len(state.chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Concurrency)
	for i, chunk := range state.chunks {
		g.Go(func() error {
			prompt, err := formatPrompt(mapPrompt, []core.Document{chunk})
			if err != nil {
				return fmt.Errorf("failed to format map prompt for chunk %d: %w", i, err)
			}
			m.metrics.recordCall(ctx, stageMap)
			resp, err := m.client.GenerateContent(ctx, &llm.Request{
				SystemPrompt: systemPrompt,
				Prompt:       prompt,
			})
			if err != nil {
				return fmt.Errorf("map step failed for chunk %d: %w", i, err)
			}
			if strings.TrimSpace(resp.Content) == "" {
				return fmt.Errorf("map step produced an empty summary for chunk %d", i)
			}
			state.summaries[i] = resp.Content
			return nil
		})
	}
	return g.Wait()
}

// collectSummaries wraps the accumulated summaries into fresh documents and
// discards the chunks. From here on the pipeline operates only on
// summaries-of-summaries, which is what makes the recursive collapse step
// well-defined.
func (m *MapReduceSummarizer) collectSummaries(state *pipelineState) {
	collapsed := make([]core.Document, len(state.summaries))
	for i, summary := range state.summaries {
		collapsed[i] = core.NewDocument(summary, nil)
	}
	state.collapsed = collapsed
	state.chunks = nil
}

// collapseSummaries re-checks the token budget after every round and keeps
// reducing until the set fits. A single document over budget cannot shrink by
// regrouping, so it proceeds to the final reduce instead of looping.
func (m *MapReduceSummarizer) collapseSummaries(ctx context.Context, state *pipelineState) error {
	log := logger.FromContext(ctx)
	rounds := 0
	for {
		total, err := m.counter.CountDocuments(ctx, state.collapsed)
		if err != nil {
			return err
		}
		if total <= m.opts.MaxTokens {
			break
		}
		if len(state.collapsed) == 1 {
			log.Warn(
				"single summary still exceeds the token budget, proceeding to final reduce",
				"tokens", total,
				"max_tokens", m.opts.MaxTokens,
			)
			break
		}
		if rounds >= m.opts.MaxCollapseRounds {
			return fmt.Errorf(
				"%w: %d rounds left %d documents totaling %d tokens against a budget of %d",
				ErrCollapseLimit, rounds, len(state.collapsed), total, m.opts.MaxTokens,
			)
		}
		log.Debug(
			"collapsing summaries",
			"round", rounds+1,
			"documents", len(state.collapsed),
			"tokens", total,
		)
		next, err := m.collapseRound(ctx, state.collapsed)
		if err != nil {
			return err
		}
		state.collapsed = next
		rounds++
	}
	m.metrics.recordCollapseRounds(ctx, rounds)
	return nil
}

// collapseRound packs the documents into budget-sized groups and reduces each
// multi-document group with one model call. The union of results replaces the
// previous set entirely.
func (m *MapReduceSummarizer) collapseRound(ctx context.Context, docs []core.Document) ([]core.Document, error) {
	groups, err := m.packDocuments(ctx, docs)
	if err != nil {
		return nil, err
	}
	next := make([]core.Document, 0, len(groups))
	for _, group := range groups {
		if len(group) == 1 {
			// Already irreducible at this level; no self-reduction.
			next = append(next, group[0])
			continue
		}
		prompt, err := formatPrompt(collapsePrompt, group)
		if err != nil {
			return nil, fmt.Errorf("failed to format reduce prompt: %w", err)
		}
		m.metrics.recordCall(ctx, stageReduce)
		resp, err := m.client.GenerateContent(ctx, &llm.Request{
			SystemPrompt: systemPrompt,
			Prompt:       prompt,
		})
		if err != nil {
			return nil, fmt.Errorf("reduce step failed: %w", err)
		}
		if strings.TrimSpace(resp.Content) == "" {
			return nil, fmt.Errorf("reduce step produced an empty summary")
		}
		next = append(next, core.NewDocument(resp.Content, nil))
	}
	return next, nil
}

// packDocuments groups documents prefix-greedily in input order: a document
// joins the current group unless it would push the group past the token
// budget, in which case it starts a new one. Order is preserved within and
// across groups.
func (m *MapReduceSummarizer) packDocuments(ctx context.Context, docs []core.Document) ([][]core.Document, error) {
	var groups [][]core.Document
	var current []core.Document
	currentTokens := 0
	for i := range docs {
		n, err := m.counter.CountTokens(ctx, docs[i].Content)
		if err != nil {
			return nil, err
		}
		if len(current) > 0 && currentTokens+n > m.opts.MaxTokens {
			groups = append(groups, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, docs[i])
		currentTokens += n
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups, nil
}

// generateFinalSummary issues the terminal model call over the now-small
// collapsed set and returns its raw output.
func (m *MapReduceSummarizer) generateFinalSummary(ctx context.Context, state *pipelineState) (string, error) {
	prompt, err := formatPrompt(finalPrompt, state.collapsed)
	if err != nil {
		return "", fmt.Errorf("failed to format final prompt: %w", err)
	}
	m.metrics.recordCall(ctx, stageFinal)
	resp, err := m.client.GenerateContent(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		Prompt:       prompt,
		JSONMode:     true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate final summary: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("failed to generate final summary: empty model output")
	}
	return resp.Content, nil
}
