package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelbridge/internal/session"
	"modelbridge/pkg/types"
)

type Manager struct {
	mu          sync.RWMutex
	sess        *session.Session
	registry    []types.Model
	defaultPath string
	recorder    Recorder
	searcher    Searcher
	log         zerolog.Logger
	startTime   time.Time
}

func New(sess *session.Session, reg []types.Model, defaultPath string) *Manager {
	return NewWithConfig(ManagerConfig{
		Session:          sess,
		Registry:         reg,
		DefaultModelPath: defaultPath,
	})
}

// Session returns the underlying model session.
func (m *Manager) Session() *session.Session { return m.sess }

// Handshake returns the native liveness string.
func (m *Manager) Handshake() string { return m.sess.Handshake() }

// Ready reports whether a model is resident.
func (m *Manager) Ready() bool { return m.sess.Loaded() }

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// SetRegistry replaces the registry snapshot, e.g. after a rescan.
func (m *Manager) SetRegistry(reg []types.Model) {
	m.mu.Lock()
	m.registry = append([]types.Model(nil), reg...)
	m.mu.Unlock()
}

// Close releases the resident model.
func (m *Manager) Close() error { return m.sess.Close() }
