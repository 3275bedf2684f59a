package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/compozy/standup-digest/engine/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageClient tells the pipeline stages apart by their prompt templates and
// replays a fixed response per stage.
type stageClient struct {
	mu             sync.Mutex
	mapResponse    string
	reduceResponse string
	finalResponse  string
	mapErr         error
	mapCalls       int
	reduceCalls    int
	finalCalls     int
}

func (c *stageClient) GenerateContent(_ context.Context, req *llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case strings.Contains(req.Prompt, "Write a project status report"):
		c.finalCalls++
		return &llm.Response{Content: c.finalResponse}, nil
	case strings.Contains(req.Prompt, "Combine the following partial summaries"):
		c.reduceCalls++
		return &llm.Response{Content: c.reduceResponse}, nil
	default:
		c.mapCalls++
		if c.mapErr != nil {
			return nil, c.mapErr
		}
		return &llm.Response{Content: c.mapResponse}, nil
	}
}

func newTestSummarizer(t *testing.T, client llm.Client, opts Options) *MapReduceSummarizer {
	t.Helper()
	counter, err := NewTiktokenCounter("cl100k_base")
	require.NoError(t, err)
	s, err := NewMapReduceSummarizer(client, counter, NewSplitter("cl100k_base"), opts, NopMetrics())
	require.NoError(t, err)
	return s
}

func standupDocs(n int) []core.Document {
	docs := make([]core.Document, n)
	for i := range docs {
		docs[i] = core.NewDocument(fmt.Sprintf("standup update %d: finished the migration", i), nil)
	}
	return docs
}

func TestMapReduceSummarizer_Summarize(t *testing.T) {
	ctx := context.Background()
	counter, err := NewTiktokenCounter("cl100k_base")
	require.NoError(t, err)

	t.Run("Should skip collapsing when summaries fit the budget", func(t *testing.T) {
		client := &stageClient{
			mapResponse:   tokenText(50),
			finalResponse: `{"summary":"done"}`,
		}
		opts := DefaultOptions()
		opts.MaxTokens = 1000
		s := newTestSummarizer(t, client, opts)

		out, err := s.Summarize(ctx, standupDocs(5))
		require.NoError(t, err)
		assert.Equal(t, `{"summary":"done"}`, out)
		// 5 chunks x 50 tokens = 250 < 1000: 5 map calls + 1 final call.
		assert.Equal(t, 5, client.mapCalls)
		assert.Equal(t, 0, client.reduceCalls)
		assert.Equal(t, 1, client.finalCalls)
	})

	t.Run("Should run one collapse round when summaries exceed the budget", func(t *testing.T) {
		mapResponse := tokenText(125)
		n, err := counter.CountTokens(ctx, mapResponse)
		require.NoError(t, err)
		require.Equal(t, 125, n, "test fixture must be exactly 125 tokens")

		client := &stageClient{
			mapResponse:    mapResponse,
			reduceResponse: tokenText(40),
			finalResponse:  `{"summary":"done"}`,
		}
		opts := DefaultOptions()
		opts.MaxTokens = 1000
		s := newTestSummarizer(t, client, opts)

		_, err = s.Summarize(ctx, standupDocs(20))
		require.NoError(t, err)
		// 20 x 125 = 2500 tokens against a 1000 budget packs into groups of
		// 8, 8, and 4: three reduce calls, then the re-check passes
		// (3 x 40 = 120) and the final call runs. 24 calls total.
		assert.Equal(t, 20, client.mapCalls)
		assert.Equal(t, 3, client.reduceCalls)
		assert.Equal(t, 1, client.finalCalls)
	})

	t.Run("Should proceed to the final reduce when a single summary is irreducible", func(t *testing.T) {
		client := &stageClient{
			mapResponse:   tokenText(1500),
			finalResponse: `{"summary":"done"}`,
		}
		opts := DefaultOptions()
		opts.MaxTokens = 1000
		s := newTestSummarizer(t, client, opts)

		_, err := s.Summarize(ctx, standupDocs(1))
		require.NoError(t, err)
		assert.Equal(t, 1, client.mapCalls)
		assert.Equal(t, 0, client.reduceCalls)
		assert.Equal(t, 1, client.finalCalls)
	})

	t.Run("Should abort with the round limit error when collapsing cannot converge", func(t *testing.T) {
		// Every summary alone exceeds the budget, so each round regroups
		// into singletons and the document count never shrinks.
		client := &stageClient{
			mapResponse:   tokenText(100),
			finalResponse: `{"summary":"done"}`,
		}
		opts := DefaultOptions()
		opts.MaxTokens = 50
		opts.MaxCollapseRounds = 3
		s := newTestSummarizer(t, client, opts)

		_, err := s.Summarize(ctx, standupDocs(3))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCollapseLimit)
		assert.Equal(t, 0, client.finalCalls)
	})

	t.Run("Should fail the whole run when any map call fails", func(t *testing.T) {
		boom := errors.New("rate limited")
		client := &stageClient{mapErr: boom}
		s := newTestSummarizer(t, client, DefaultOptions())

		_, err := s.Summarize(ctx, standupDocs(4))
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, client.finalCalls)
	})

	t.Run("Should reject an empty document set", func(t *testing.T) {
		s := newTestSummarizer(t, &stageClient{}, DefaultOptions())
		_, err := s.Summarize(ctx, nil)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})
}

func TestMapReduceSummarizer_GenerateSummaries(t *testing.T) {
	ctx := context.Background()

	t.Run("Should produce exactly one summary per chunk regardless of fan-out order", func(t *testing.T) {
		client := llm.NewMockClient("echo")
		opts := DefaultOptions()
		opts.Concurrency = 3
		s := newTestSummarizer(t, client, opts)

		chunks := standupDocs(7)
		state := &pipelineState{chunks: chunks}
		require.NoError(t, s.generateSummaries(ctx, state))
		require.Len(t, state.summaries, 7)
		for i, chunk := range chunks {
			assert.Contains(t, state.summaries[i], chunk.Content, "summary %d does not match its chunk", i)
		}
	})
}

func TestMapReduceSummarizer_PackDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("Should pack prefix-greedily preserving input order", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxTokens = 100
		s := newTestSummarizer(t, &stageClient{}, opts)

		docs := []core.Document{
			core.NewDocument(tokenText(60), nil),
			core.NewDocument(tokenText(30), nil),
			core.NewDocument(tokenText(30), nil),
			core.NewDocument(tokenText(90), nil),
		}
		groups, err := s.packDocuments(ctx, docs)
		require.NoError(t, err)
		// 60+30 fits, adding the next 30 would exceed; 30+? then 90 exceeds.
		require.Len(t, groups, 3)
		assert.Len(t, groups[0], 2)
		assert.Len(t, groups[1], 1)
		assert.Len(t, groups[2], 1)
	})

	t.Run("Should isolate a document that alone exceeds the budget", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxTokens = 100
		s := newTestSummarizer(t, &stageClient{}, opts)

		docs := []core.Document{
			core.NewDocument(tokenText(250), nil),
			core.NewDocument(tokenText(10), nil),
		}
		groups, err := s.packDocuments(ctx, docs)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Len(t, groups[0], 1)
		assert.Len(t, groups[1], 1)
	})
}
