//go:build llama

package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/google/uuid"

	"modelbridge/internal/common/fsutil"
	"modelbridge/internal/embed"
)

const defaultLlamaCtx = 512

// LlamaBuiltIn reports whether the llama engine is compiled in.
const LlamaBuiltIn = true

// llamaLoader opens models in-process through go-llama.cpp with embeddings
// enabled. Handles it returns serve Embed themselves; their dimension is the
// model's own embedding width, and every vector is scaled to unit norm.
type llamaLoader struct {
	ctxSize int
	threads int
}

// NewLlamaLoader returns the llama engine loader.
func NewLlamaLoader(ctxSize, threads int) Loader {
	if ctxSize <= 0 {
		ctxSize = defaultLlamaCtx
	}
	if threads <= 0 {
		threads = 1
	}
	return &llamaLoader{ctxSize: ctxSize, threads: threads}
}

func (l *llamaLoader) Open(ctx context.Context, path string) (Handle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidArgument("empty model path")
	}
	// Reject obviously wrong artifacts before handing them to llama.cpp,
	// which reports every failure the same way.
	hdr, err := Inspect(path)
	if err != nil {
		return nil, err
	}
	p, _ := fsutil.ExpandHome(path)
	m, err := llama.New(p, llama.SetContext(l.ctxSize), llama.EnableEmbeddings)
	if err != nil {
		return nil, ErrResourceExhausted("llama load "+path, err)
	}
	h := &llamaHandle{id: uuid.NewString(), path: path, model: m, threads: l.threads, size: hdr.FileSize}
	if fi, err := os.Stat(p); err == nil {
		h.size = fi.Size()
	}
	// Probe once so Dim is known before the first caller asks.
	probe, err := h.Embed(ctx, " ")
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	h.dim = len(probe)
	return h, nil
}

// llamaHandle owns a loaded model. llama.cpp contexts are not safe for
// concurrent use, so Embed is serialized per handle.
type llamaHandle struct {
	mu      sync.Mutex
	id      string
	path    string
	model   *llama.LLama
	threads int
	size    int64
	dim     int
}

func (h *llamaHandle) ID() string   { return h.id }
func (h *llamaHandle) Path() string { return h.path }
func (h *llamaHandle) Size() int64  { return h.size }
func (h *llamaHandle) Dim() int     { return h.dim }

func (h *llamaHandle) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	v, err := h.model.Embeddings(text, llama.SetThreads(h.threads))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 || !embed.Normalize(v) {
		return nil, errors.New("llama returned a degenerate embedding")
	}
	return v, nil
}

func (h *llamaHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}
