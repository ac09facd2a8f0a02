package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelbridge/internal/embed"
)

// HandshakeMessage is returned by Handshake on every call.
const HandshakeMessage = "Native Handshake: Connection Secure!"

// Session holds zero or one model handle.
type Session struct {
	mu       sync.RWMutex
	state    State
	handle   Handle
	path     string
	loadedAt time.Time
	loads    uint64
	unloads  uint64

	loader       Loader
	engine       string
	embedder     embed.Embedder
	requireModel bool
	publisher    EventPublisher
	log          zerolog.Logger
}

// Handshake proves the session is reachable. It has no side effects.
func (s *Session) Handshake() string { return HandshakeMessage }

// Load acquires a handle for path and makes it the resident model. A handle
// that is already resident is released first, inside the same critical
// section, so at no point are two handles alive or a half-released handle
// visible. If acquisition fails the session is left empty.
func (s *Session) Load(ctx context.Context, path string) error {
	if path == "" {
		return ErrInvalidArgument("empty model path")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A caller that gave up while waiting for the lock must not cost the
	// resident model.
	if err := ctx.Err(); err != nil {
		loadsTotal.WithLabelValues(string(KindCanceled)).Inc()
		return ErrCanceled(err)
	}

	start := time.Now()
	s.publisher.Publish(Event{Name: "load_start", Path: path, Fields: map[string]any{}})
	s.log.Info().Str("path", path).Str("engine", s.engine).Msg("model load start")

	if s.handle != nil {
		prev := s.handle.ID()
		s.log.Info().Str("path", s.path).Str("handle", prev).Msg("releasing resident model before reload")
		s.releaseLocked()
		s.publisher.Publish(Event{Name: "release_previous", Path: path, Fields: map[string]any{"handle": prev}})
	}

	h, err := s.openLocked(ctx, path)
	if err != nil {
		loadsTotal.WithLabelValues(resultLabel(err)).Inc()
		s.log.Error().Err(err).Str("path", path).Str("kind", string(KindOf(err))).Msg("model load failed")
		s.publisher.Publish(Event{Name: "load_error", Path: path, Fields: map[string]any{"error": err.Error(), "kind": string(KindOf(err))}})
		return err
	}

	s.handle = h
	s.path = path
	s.state = StateLoaded
	s.loadedAt = time.Now()
	s.loads++
	loadsTotal.WithLabelValues("ok").Inc()
	modelLoaded.Set(1)
	handleBytes.Set(float64(h.Size()))

	dur := time.Since(start)
	s.log.Info().Str("path", path).Str("handle", h.ID()).Int64("bytes", h.Size()).Dur("dur", dur).Msg("model loaded")
	s.publisher.Publish(Event{Name: "load_done", Path: path, Fields: map[string]any{"handle": h.ID(), "dur_ms": int(dur / time.Millisecond)}})
	return nil
}

// openLocked calls the loader and converts a panicking loader into an error
// so the session lock is never left in an inconsistent state.
func (s *Session) openLocked(ctx context.Context, path string) (h Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = ErrResourceExhausted("loader panic", panicError{r})
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled(err)
	}
	h, err = s.loader.Open(ctx, path)
	if err == nil && h == nil {
		err = ErrResourceExhausted("loader returned no handle", nil)
	}
	return h, err
}

// Unload releases the resident handle, if any. Calling it with no handle is
// a no-op, so it is safe to call repeatedly and at shutdown.
func (s *Session) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return
	}
	path := s.path
	s.releaseLocked()
	s.log.Info().Str("path", path).Msg("model unloaded")
	s.publisher.Publish(Event{Name: "unload_done", Path: path, Fields: map[string]any{}})
}

// releaseLocked closes the handle and clears the session. Callers hold mu.
func (s *Session) releaseLocked() {
	h := s.handle
	s.handle = nil
	s.path = ""
	s.state = StateEmpty
	s.loadedAt = time.Time{}
	s.unloads++
	unloadsTotal.Inc()
	modelLoaded.Set(0)
	handleBytes.Set(0)
	if err := h.Close(); err != nil {
		s.log.Warn().Err(err).Str("handle", h.ID()).Msg("model handle close failed")
	}
}

// Embed returns the embedding of text. The read lock is held for the whole
// call so a concurrent Unload cannot invalidate the handle underneath it.
func (s *Session) Embed(ctx context.Context, text string) ([]float32, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		v   []float32
		err error
	)
	if he, ok := s.handle.(HandleEmbedder); ok {
		v, err = he.Embed(ctx, text)
	} else if s.requireModel && s.handle == nil {
		err = ErrNotLoaded
	} else {
		v, err = s.embedder.Embed(ctx, text)
	}
	embeddingsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		s.log.Debug().Err(err).Int("text_len", len(text)).Msg("embed failed")
		return nil, err
	}
	return v, nil
}

// Dim reports the dimension Embed currently produces.
func (s *Session) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if he, ok := s.handle.(HandleEmbedder); ok {
		return he.Dim()
	}
	return s.embedder.Dim()
}

// Loaded reports whether a handle is resident.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateLoaded
}

// Engine returns the configured engine name.
func (s *Session) Engine() string { return s.engine }

// RequireModel reports whether embeddings need a loaded model.
func (s *Session) RequireModel() bool { return s.requireModel }

// Snapshot returns a read-only view of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		State:    s.state,
		Path:     s.path,
		LoadedAt: s.loadedAt,
		Loads:    s.loads,
		Unloads:  s.unloads,
		Engine:   s.engine,
	}
	if s.handle != nil {
		snap.HandleID = s.handle.ID()
		snap.HandleBytes = s.handle.Size()
	}
	return snap
}

// Close releases any resident handle. It is the process-teardown hook.
func (s *Session) Close() error {
	s.Unload()
	return nil
}
