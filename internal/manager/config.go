package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"modelbridge/internal/session"
	"modelbridge/internal/store"
	"modelbridge/pkg/types"
)

// Recorder persists embeddings for later reproducibility checks.
type Recorder interface {
	Record(ctx context.Context, engine, text string, vec []float32) error
}

// Searcher ranks recorded embeddings against a query vector.
type Searcher interface {
	Search(ctx context.Context, engine string, query []float32, k int) ([]store.Match, error)
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Session is the model session. Defaults to session.New().
	Session *session.Session
	// Registry lists the artifacts /models reports and /load can resolve by id.
	Registry []types.Model
	// DefaultModelPath is loaded when a load request names neither path nor model.
	DefaultModelPath string
	// Recorder, when set, receives every successful embedding.
	Recorder Recorder
	// Searcher, when set, backs Search. Usually the same ledger as Recorder.
	Searcher Searcher
	Logger   *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		sess:        cfg.Session,
		registry:    append([]types.Model(nil), cfg.Registry...),
		defaultPath: cfg.DefaultModelPath,
		recorder:    cfg.Recorder,
		searcher:    cfg.Searcher,
		startTime:   time.Now(),
	}
	if m.sess == nil {
		m.sess = session.New()
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	return m
}
