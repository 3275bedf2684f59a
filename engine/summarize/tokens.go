package summarize

import (
	"context"
	"fmt"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter computes deterministic token counts for the configured model.
// Tokens are never deduplicated or windowed across documents: the total for a
// set is the sum of the per-document counts.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
	CountDocuments(ctx context.Context, docs []core.Document) (int, error)
}

// TiktokenCounter implements TokenCounter using the tiktoken-go library.
// Construction fails fast when no encoding exists for the model: token
// accounting drives every branching decision in the pipeline, so a silent
// estimate would be worse than an immediate error. Only the splitter has a
// defined fallback.
type TiktokenCounter struct {
	name string
	tke  *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for the given model or encoding name.
func NewTiktokenCounter(modelOrEncoding string) (*TiktokenCounter, error) {
	if modelOrEncoding == "" {
		return nil, fmt.Errorf("model or encoding name is required")
	}
	tke, err := tiktoken.GetEncoding(modelOrEncoding)
	if err != nil {
		// Not an encoding name; try it as a model name.
		tke, err = tiktoken.EncodingForModel(modelOrEncoding)
		if err != nil {
			return nil, fmt.Errorf("no token encoding available for %q: %w", modelOrEncoding, err)
		}
	}
	return &TiktokenCounter{name: modelOrEncoding, tke: tke}, nil
}

// CountTokens counts the tokens in the given text.
func (tc *TiktokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if tc.tke == nil {
		return 0, fmt.Errorf("tiktoken encoder is not initialized for %s", tc.name)
	}
	return len(tc.tke.Encode(text, nil, nil)), nil
}

// CountDocuments sums the per-document token counts.
func (tc *TiktokenCounter) CountDocuments(ctx context.Context, docs []core.Document) (int, error) {
	total := 0
	for i := range docs {
		n, err := tc.CountTokens(ctx, docs[i].Content)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Name returns the model or encoding name this counter was built for.
func (tc *TiktokenCounter) Name() string {
	return tc.name
}

func (tc *TiktokenCounter) encode(text string) []int {
	return tc.tke.Encode(text, nil, nil)
}

func (tc *TiktokenCounter) decode(tokens []int) string {
	return tc.tke.Decode(tokens)
}
