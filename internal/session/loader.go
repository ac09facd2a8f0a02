package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Engine names accepted by NewLoader.
const (
	EnginePlaceholder = "placeholder"
	EngineGGUF        = "gguf"
	EngineLlama       = "llama"
)

// PlaceholderBlockBytes is the resident block each placeholder handle holds
// in place of model weights.
const PlaceholderBlockBytes = 1 << 20

// Loader acquires a handle for a model artifact.
type Loader interface {
	Open(ctx context.Context, path string) (Handle, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (Handle, error)

func (f LoaderFunc) Open(ctx context.Context, path string) (Handle, error) { return f(ctx, path) }

// LoaderOptions carries engine-specific knobs.
type LoaderOptions struct {
	// BlockBytes overrides PlaceholderBlockBytes for the placeholder engine.
	BlockBytes int
	// LlamaCtx and LlamaThreads configure the llama engine.
	LlamaCtx     int
	LlamaThreads int
}

// NewLoader returns the loader for an engine name. An empty name selects the
// placeholder engine.
func NewLoader(engine string, opts LoaderOptions) (Loader, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EnginePlaceholder:
		return PlaceholderLoader{BlockBytes: opts.BlockBytes}, nil
	case EngineGGUF:
		return GGUFLoader{}, nil
	case EngineLlama:
		return NewLlamaLoader(opts.LlamaCtx, opts.LlamaThreads), nil
	default:
		return nil, ErrInvalidArgument(fmt.Sprintf("unknown engine %q", engine))
	}
}

// PlaceholderLoader simulates model residency with a fixed-size heap block.
// It does not touch the filesystem, so any non-empty path loads.
type PlaceholderLoader struct {
	// BlockBytes is the block size; 0 selects PlaceholderBlockBytes.
	BlockBytes int
}

func (l PlaceholderLoader) Open(ctx context.Context, path string) (Handle, error) {
	n := l.BlockBytes
	if n == 0 {
		n = PlaceholderBlockBytes
	}
	if n < 0 {
		return nil, ErrResourceExhausted(fmt.Sprintf("invalid block size %d", n), nil)
	}
	block, err := allocBlock(n)
	if err != nil {
		return nil, err
	}
	return &blockHandle{id: uuid.NewString(), path: path, block: block}, nil
}

func allocBlock(n int) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = ErrResourceExhausted(fmt.Sprintf("allocate %d bytes", n), panicError{r})
		}
	}()
	return make([]byte, n), nil
}

// blockHandle owns a placeholder block. Close is idempotent.
type blockHandle struct {
	mu    sync.Mutex
	id    string
	path  string
	block []byte
}

func (h *blockHandle) ID() string   { return h.id }
func (h *blockHandle) Path() string { return h.path }

func (h *blockHandle) Size() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int64(len(h.block))
}

func (h *blockHandle) Close() error {
	h.mu.Lock()
	h.block = nil
	h.mu.Unlock()
	return nil
}
