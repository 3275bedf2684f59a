package summarize

import "errors"

var (
	// ErrNoDocuments is returned when a summarizer is invoked with nothing
	// to summarize.
	ErrNoDocuments = errors.New("summarize: no input documents")
	// ErrCollapseLimit is returned when the collapse loop cannot converge
	// within the configured round limit. It indicates a configuration
	// problem (threshold too small for the inputs), never a silent loop.
	ErrCollapseLimit = errors.New("summarize: collapse loop exceeded the configured round limit")
)
