package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeHandle records how many times it was closed.
type fakeHandle struct {
	id     string
	path   string
	closes atomic.Int32
}

func (h *fakeHandle) ID() string   { return h.id }
func (h *fakeHandle) Path() string { return h.path }
func (h *fakeHandle) Size() int64  { return 64 }
func (h *fakeHandle) Close() error {
	h.closes.Add(1)
	return nil
}

// fakeLoader hands out fakeHandles and tracks every one it issued.
type fakeLoader struct {
	mu      sync.Mutex
	handles []*fakeHandle
	failOn  map[string]error
}

func (l *fakeLoader) Open(ctx context.Context, path string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.failOn[path]; err != nil {
		return nil, err
	}
	h := &fakeHandle{id: path + "#" + string(rune('0'+len(l.handles))), path: path}
	l.handles = append(l.handles, h)
	return h, nil
}

// live counts handles that were opened and not yet closed.
func (l *fakeLoader) live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, h := range l.handles {
		if h.closes.Load() == 0 {
			n++
		}
	}
	return n
}

func (l *fakeLoader) all() []*fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*fakeHandle(nil), l.handles...)
}

// embedHandle is a handle that serves embeddings itself.
type embedHandle struct {
	fakeHandle
	vec []float32
}

func (h *embedHandle) Embed(ctx context.Context, text string) ([]float32, error) {
	if h.closes.Load() > 0 {
		return nil, errors.New("embed on closed handle")
	}
	return append([]float32(nil), h.vec...), nil
}

func (h *embedHandle) Dim() int { return len(h.vec) }

// writeFile creates a file with the given bytes and returns its path.
func writeFile(t *testing.T, dir, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

// writeGGUF writes a header-only GGUF artifact padded to 4 KiB.
func writeGGUF(t *testing.T, dir, name string, version uint32) string {
	t.Helper()
	b := append(EncodeHeader(version, 0, 0), make([]byte, 4096-GGUFHeaderSize)...)
	return writeFile(t, dir, name, b)
}
