package tracestore

import (
	"context"
	stderrors "errors"
)

// ErrNotFound is returned when a trace doesn't exist.
var ErrNotFound = stderrors.New("tracestore: trace not found")

// Store is the interface for trace storage backends.
type Store interface {
	// Put stores t and returns the key it was stored under.
	Put(ctx context.Context, t *Trace) (key string, err error)

	// Get loads the trace stored under key.
	Get(ctx context.Context, key string) (*Trace, error)
}

// keyFor returns the object name of t in format f.
func keyFor(t *Trace, f Format) string {
	return t.ID + "." + f.Ext()
}
