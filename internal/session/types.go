package session

import (
	"context"
	"time"
)

// State represents the lifecycle state of the session.
type State string

const (
	StateEmpty  State = "empty"
	StateLoaded State = "loaded"
)

// Handle is an owned model resource. Close releases it; the session calls
// Close exactly once per handle.
type Handle interface {
	ID() string
	Path() string
	// Size is the number of bytes held resident for this handle.
	Size() int64
	Close() error
}

// HandleEmbedder is implemented by handles backed by a real engine. When the
// loaded handle implements it, embeddings are served by the handle instead of
// the session's placeholder strategy.
type HandleEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dim() int
}

// Snapshot is a read-only projection of the session state.
type Snapshot struct {
	State       State
	Path        string
	HandleID    string
	HandleBytes int64
	LoadedAt    time.Time
	Loads       uint64
	Unloads     uint64
	Engine      string
}
