// Package bridge is the boundary contract exposed to foreign callers.
// Every failure becomes a return value and panics never cross it.
package bridge

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"modelbridge/internal/config"
	"modelbridge/internal/embed"
	"modelbridge/internal/session"
)

// Bridge adapts a session to boolean and nil-result semantics.
type Bridge struct {
	s   *session.Session
	log zerolog.Logger
}

// New wraps an existing session. A nil session gets session.New().
func New(s *session.Session) *Bridge {
	if s == nil {
		s = session.New()
	}
	return &Bridge{s: s, log: zerolog.Nop()}
}

// WithLogger returns b with l attached for failure reporting.
func (b *Bridge) WithLogger(l zerolog.Logger) *Bridge {
	b.log = l
	return b
}

// Build constructs a session from cfg and wraps it.
func Build(cfg config.Config, log zerolog.Logger) (*Bridge, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loader, err := session.NewLoader(cfg.Engine, session.LoaderOptions{
		LlamaCtx:     cfg.LlamaCtx,
		LlamaThreads: cfg.LlamaThreads,
	})
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(cfg.EmbedCacheSize)
	if err != nil {
		return nil, err
	}
	sl := log.With().Str("component", "session").Logger()
	s := session.NewWithConfig(session.Config{
		Loader:       loader,
		Engine:       cfg.Engine,
		Embedder:     embedder,
		RequireModel: cfg.RequireModel,
		Logger:       &sl,
	})
	return New(s).WithLogger(log.With().Str("component", "bridge").Logger()), nil
}

// newEmbedder returns the hash strategy, behind an LRU when cacheSize > 0.
func newEmbedder(cacheSize int) (embed.Embedder, error) {
	h := embed.NewHashEmbedder()
	if cacheSize <= 0 {
		return h, nil
	}
	return embed.NewCached(h, cacheSize)
}

// Session exposes the wrapped session for richer surfaces such as HTTP.
func (b *Bridge) Session() *session.Session { return b.s }

// Handshake returns the fixed liveness string.
func (b *Bridge) Handshake() string { return b.s.Handshake() }

// LoadModel reports whether path is now the resident model.
func (b *Bridge) LoadModel(path string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("path", path).Msg("load model panicked")
			ok = false
		}
	}()
	if err := b.s.Load(context.Background(), path); err != nil {
		b.log.Warn().Err(err).Str("kind", string(session.KindOf(err))).Str("path", path).Msg("load model failed")
		return false
	}
	return true
}

// FreeModel releases the resident model, if any.
func (b *Bridge) FreeModel() {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("free model panicked")
		}
	}()
	b.s.Unload()
}

// GetEmbedding returns a vector of EmbeddingDim floats, or nil when the
// text cannot be converted or the session refuses to embed.
func (b *Bridge) GetEmbedding(text string) (vec []float32) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("get embedding panicked")
			vec = nil
		}
	}()
	if !utf8.ValidString(text) {
		b.log.Warn().Msg("get embedding: text is not valid UTF-8")
		return nil
	}
	v, err := b.s.Embed(context.Background(), text)
	if err != nil {
		b.log.Warn().Err(err).Str("kind", string(session.KindOf(err))).Msg("get embedding failed")
		return nil
	}
	return v
}

// EmbeddingDim is the length of every vector GetEmbedding returns.
func (b *Bridge) EmbeddingDim() int { return b.s.Dim() }

// Close releases the resident model at process teardown.
func (b *Bridge) Close() error { return b.s.Close() }

var (
	defMu  sync.Mutex
	defB   *Bridge
	defErr error
)

// Default returns the process-wide bridge, building it on first use from
// config.Default() with MODELBRIDGE_* overrides. A broken environment falls
// back to a placeholder session so the boundary stays usable.
func Default() *Bridge {
	defMu.Lock()
	defer defMu.Unlock()
	if defB != nil {
		return defB
	}
	cfg := config.Default()
	if err := cfg.ApplyEnv(nil); err != nil {
		defErr = err
	}
	b, err := Build(cfg, zerolog.Nop())
	if err != nil {
		defErr = err
		b = New(nil)
	}
	defB = b
	return defB
}

// DefaultErr reports the configuration error hit while building Default, if any.
func DefaultErr() error {
	defMu.Lock()
	defer defMu.Unlock()
	return defErr
}

// SetDefault replaces the process-wide bridge. Passing nil resets it so the
// next Default call rebuilds. The previous bridge is not closed.
func SetDefault(b *Bridge) {
	defMu.Lock()
	defer defMu.Unlock()
	defB = b
	defErr = nil
}
