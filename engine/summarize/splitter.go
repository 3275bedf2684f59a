package summarize

import (
	"context"
	"fmt"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/compozy/standup-digest/pkg/logger"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter divides documents into chunks bounded by a token budget, keeping
// each source document's metadata on every chunk it produces.
//
// The primary strategy is token-aware splitting with the model's encoding.
// When no encoding exists for the model, splitting degrades to a recursive
// character splitter with the same size and overlap values (interpreted as
// character counts) and logs a warning: imprecise chunks beat a hard failure
// here, unlike token counting.
type Splitter struct {
	tokenizer    *TiktokenCounter
	tokenizerErr error
}

// NewSplitter builds a splitter for the given model or encoding name.
func NewSplitter(modelOrEncoding string) *Splitter {
	tokenizer, err := NewTiktokenCounter(modelOrEncoding)
	if err != nil {
		return &Splitter{tokenizerErr: err}
	}
	return &Splitter{tokenizer: tokenizer}
}

// Split chunks the documents in input order. A document shorter than
// chunkSize yields exactly one chunk.
func (s *Splitter) Split(ctx context.Context, docs []core.Document, chunkSize, chunkOverlap int) ([]core.Document, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than zero, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}
	if s.tokenizer == nil {
		logger.FromContext(ctx).Warn(
			"token splitter unavailable, falling back to character splitting",
			"error", s.tokenizerErr,
		)
		return s.splitByCharacters(docs, chunkSize, chunkOverlap)
	}
	return s.splitByTokens(docs, chunkSize, chunkOverlap), nil
}

func (s *Splitter) splitByTokens(docs []core.Document, chunkSize, chunkOverlap int) []core.Document {
	chunks := make([]core.Document, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		ids := s.tokenizer.encode(doc.Content)
		if len(ids) == 0 {
			continue
		}
		if len(ids) <= chunkSize {
			// Keep the original text untouched for the single-chunk case.
			chunks = append(chunks, doc.Derive(doc.Content))
			continue
		}
		for start := 0; start < len(ids); {
			end := min(start+chunkSize, len(ids))
			chunks = append(chunks, doc.Derive(s.tokenizer.decode(ids[start:end])))
			if end == len(ids) {
				break
			}
			start = end - chunkOverlap
		}
	}
	return chunks
}

func (s *Splitter) splitByCharacters(docs []core.Document, chunkSize, chunkOverlap int) ([]core.Document, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)
	chunks := make([]core.Document, 0, len(docs))
	for i := range docs {
		doc := docs[i]
		if doc.Content == "" {
			continue
		}
		segments, err := splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("character split failed: %w", err)
		}
		for _, segment := range segments {
			if segment == "" {
				continue
			}
			chunks = append(chunks, doc.Derive(segment))
		}
	}
	return chunks, nil
}
