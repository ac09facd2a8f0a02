package session

import (
	"github.com/rs/zerolog"

	"modelbridge/internal/embed"
)

// Config encapsulates all tunables for Session construction.
type Config struct {
	// Loader acquires handles. Defaults to the placeholder loader.
	Loader Loader
	// Engine is informational and reported in snapshots.
	Engine string
	// Embedder serves embeddings when the handle cannot. Defaults to
	// embed.HashEmbedder.
	Embedder embed.Embedder
	// RequireModel makes Embed fail with ErrNotLoaded while no handle is
	// resident, even for the placeholder strategy.
	RequireModel bool
	Logger       *zerolog.Logger
	Publisher    EventPublisher
}

// NewWithConfig constructs a Session from Config.
func NewWithConfig(cfg Config) *Session {
	s := &Session{
		state:        StateEmpty,
		loader:       cfg.Loader,
		engine:       cfg.Engine,
		embedder:     cfg.Embedder,
		requireModel: cfg.RequireModel,
		publisher:    cfg.Publisher,
	}
	if s.loader == nil {
		s.loader = PlaceholderLoader{}
		if s.engine == "" {
			s.engine = EnginePlaceholder
		}
	}
	if s.embedder == nil {
		s.embedder = embed.NewHashEmbedder()
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	} else {
		s.log = zerolog.Nop()
	}
	return s
}

// New returns a session using the placeholder loader and hash embeddings.
func New() *Session { return NewWithConfig(Config{}) }
