package publish

import "context"

// Result carries the location of the published document.
type Result struct {
	URL string `json:"url"`
}

// Publisher turns a set of placeholder replacements into a named document.
// Used only by the orchestrator after a summary is produced.
type Publisher interface {
	Publish(ctx context.Context, replacements map[string]string, outputName string) (*Result, error)
}
