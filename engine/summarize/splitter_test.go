package summarize

import (
	"context"
	"strings"
	"testing"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenText builds text with exactly n tokens under cl100k_base: "hello" and
// every subsequent " hello" encode to one token each.
func tokenText(n int) string {
	if n <= 0 {
		return ""
	}
	return "hello" + strings.Repeat(" hello", n-1)
}

func TestSplitter_Split(t *testing.T) {
	ctx := context.Background()
	counter, err := NewTiktokenCounter("cl100k_base")
	require.NoError(t, err)

	t.Run("Should yield exactly one chunk for a document under the budget", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		doc := core.NewDocument("short standup note", map[string]string{"source": "slack"})
		chunks, err := splitter.Split(ctx, []core.Document{doc}, 100, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, doc.Content, chunks[0].Content)
		assert.Equal(t, "slack", chunks[0].Metadata["source"])
	})

	t.Run("Should keep every chunk within the token budget", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		text := tokenText(2500)
		chunks, err := splitter.Split(ctx, []core.Document{core.NewDocument(text, nil)}, 100, 0)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		for i, chunk := range chunks {
			n, err := counter.CountTokens(ctx, chunk.Content)
			require.NoError(t, err)
			assert.LessOrEqual(t, n, 100, "chunk %d exceeds budget", i)
		}
	})

	t.Run("Should reconstruct the original text when overlap is zero", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		text := tokenText(777)
		chunks, err := splitter.Split(ctx, []core.Document{core.NewDocument(text, nil)}, 100, 0)
		require.NoError(t, err)
		contents := make([]string, len(chunks))
		for i, chunk := range chunks {
			contents[i] = chunk.Content
		}
		assert.Equal(t, text, strings.Join(contents, ""))
	})

	t.Run("Should repeat trailing tokens when overlap is set", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		text := tokenText(250)
		chunks, err := splitter.Split(ctx, []core.Document{core.NewDocument(text, nil)}, 100, 10)
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		for i := 1; i < len(chunks); i++ {
			prev := chunks[i-1].Content
			tail := prev[len(prev)-10:]
			assert.Contains(t, chunks[i].Content, tail, "chunk %d does not repeat the previous tail", i)
		}
	})

	t.Run("Should preserve metadata on every chunk", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		doc := core.NewDocument(tokenText(300), map[string]string{"source": "github", "repo": "acme/api"})
		chunks, err := splitter.Split(ctx, []core.Document{doc}, 100, 0)
		require.NoError(t, err)
		for _, chunk := range chunks {
			assert.Equal(t, "github", chunk.Metadata["source"])
			assert.Equal(t, "acme/api", chunk.Metadata["repo"])
		}
	})

	t.Run("Should reject overlap greater than or equal to chunk size", func(t *testing.T) {
		splitter := NewSplitter("cl100k_base")
		_, err := splitter.Split(ctx, []core.Document{core.NewDocument("text", nil)}, 100, 100)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be smaller than chunk size")
	})

	t.Run("Should fall back to character splitting for an unknown model", func(t *testing.T) {
		splitter := NewSplitter("definitely-not-a-model-123")
		text := strings.Repeat("alpha beta gamma delta epsilon ", 80)
		chunks, err := splitter.Split(ctx, []core.Document{core.NewDocument(text, nil)}, 200, 0)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk.Content)
			assert.LessOrEqual(t, len(chunk.Content), 200)
			assert.Contains(t, text, chunk.Content)
		}
	})

	t.Run("Should yield one chunk equal to a short document in fallback mode", func(t *testing.T) {
		splitter := NewSplitter("definitely-not-a-model-123")
		chunks, err := splitter.Split(ctx, []core.Document{core.NewDocument("tiny note", nil)}, 200, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "tiny note", chunks[0].Content)
	})
}
