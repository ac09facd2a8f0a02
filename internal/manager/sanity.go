package manager

import (
	"modelbridge/internal/common/fsutil"
	"modelbridge/internal/session"
)

// SanityReport describes runtime checks for the configured engine.
type SanityReport struct {
	Engine          string `json:"engine"`
	EngineAvailable bool   `json:"engine_available"`
	DefaultPath     string `json:"default_path,omitempty"`
	DefaultFound    bool   `json:"default_found"`
	Error           string `json:"error,omitempty"`
}

// SanityCheck validates that the configured engine can serve the default
// model path. It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{Engine: m.sess.Engine(), DefaultPath: m.defaultPath}
	switch r.Engine {
	case session.EngineLlama:
		r.EngineAvailable = session.LlamaBuiltIn
		if !r.EngineAvailable {
			r.Error = "llama support not built (missing 'llama' build tag)"
			return r
		}
	default:
		r.EngineAvailable = true
	}
	if r.DefaultPath == "" {
		return r
	}
	if r.Engine == session.EnginePlaceholder || r.Engine == "" {
		// The placeholder engine never reads the file.
		r.DefaultFound = true
		return r
	}
	p, err := fsutil.ExpandHome(r.DefaultPath)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	if !fsutil.PathExists(p) {
		r.Error = "default model not found: " + p
		return r
	}
	r.DefaultFound = true
	if r.Engine == session.EngineGGUF {
		if _, err := session.Inspect(p); err != nil {
			r.DefaultFound = false
			r.Error = err.Error()
		}
	}
	return r
}
