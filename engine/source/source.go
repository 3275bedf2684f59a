package source

import (
	"context"
	"time"

	"github.com/compozy/standup-digest/engine/core"
)

// Query bounds a source fetch to a date window.
type Query struct {
	From time.Time
	To   time.Time
}

// Source returns source documents for a date window, tagged with
// source-identifying metadata. Implementations return documents in a stable
// order and never mutate them afterwards.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]core.Document, error)
}
