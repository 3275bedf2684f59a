package summarize

import "fmt"

// Options drives every token-accounting decision in the pipeline. Both the
// chunk size and the max-token threshold are inputs, not constants of the
// algorithm.
type Options struct {
	// ChunkSize is the token budget per map-stage chunk.
	ChunkSize int
	// ChunkOverlap repeats the trailing tokens of the previous chunk. The
	// map-reduce path uses 0: adjacent chunks are summarized independently,
	// so redundancy only wastes tokens.
	ChunkOverlap int
	// MaxTokens is the collapse threshold: intermediate summaries are reduced
	// until their combined token count fits under it. Keep it comfortably
	// below the model's context window to leave headroom for the prompt
	// scaffolding and output tokens.
	MaxTokens int
	// StuffThreshold is the auto-mode cutover between stuff and map-reduce.
	StuffThreshold int
	// MaxCollapseRounds bounds the collapse loop under pathological
	// configuration.
	MaxCollapseRounds int
	// Concurrency limits the map-stage fan-out.
	Concurrency int
}

// DefaultOptions returns the pipeline defaults used when the caller supplies
// nothing. Values mirror pkg/config.Default.
func DefaultOptions() Options {
	return Options{
		ChunkSize:         12000,
		ChunkOverlap:      0,
		MaxTokens:         4000,
		StuffThreshold:    8000,
		MaxCollapseRounds: 5,
		Concurrency:       4,
	}
}

// Validate surfaces configuration errors before any model call.
func (o *Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be greater than zero, got %d", o.ChunkSize)
	}
	if o.ChunkOverlap < 0 {
		return fmt.Errorf("chunk overlap cannot be negative, got %d", o.ChunkOverlap)
	}
	if o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", o.ChunkOverlap, o.ChunkSize)
	}
	if o.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be greater than zero, got %d", o.MaxTokens)
	}
	if o.StuffThreshold <= 0 {
		return fmt.Errorf("stuff threshold must be greater than zero, got %d", o.StuffThreshold)
	}
	if o.MaxCollapseRounds <= 0 {
		return fmt.Errorf("max collapse rounds must be greater than zero, got %d", o.MaxCollapseRounds)
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than zero, got %d", o.Concurrency)
	}
	return nil
}
