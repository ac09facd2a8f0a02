package manager

import (
	"context"
	"fmt"

	"modelbridge/internal/registry"
	"modelbridge/internal/session"
	"modelbridge/pkg/types"
)

// resolvePath picks the artifact a load request refers to: an explicit path
// wins, then a registry id, then the configured default.
func (m *Manager) resolvePath(req types.LoadRequest) (string, error) {
	if req.Path != "" {
		return req.Path, nil
	}
	if req.Model != "" {
		m.mu.RLock()
		mdl, ok := registry.Lookup(m.registry, req.Model)
		m.mu.RUnlock()
		if !ok {
			return "", ErrModelNotFound(req.Model)
		}
		return mdl.Path, nil
	}
	return m.defaultPath, nil
}

// Load makes the requested artifact the resident model. Session errors are
// returned unchanged so callers can classify them.
func (m *Manager) Load(ctx context.Context, req types.LoadRequest) (types.LoadResponse, error) {
	path, err := m.resolvePath(req)
	if err != nil {
		return types.LoadResponse{Loaded: m.sess.Loaded()}, err
	}
	if err := m.sess.Load(ctx, path); err != nil {
		m.log.Info().Err(err).Str("path", path).Msg("load rejected")
		return types.LoadResponse{Loaded: m.sess.Loaded()}, err
	}
	snap := m.sess.Snapshot()
	return types.LoadResponse{
		Loaded:   true,
		Path:     snap.Path,
		HandleID: snap.HandleID,
		Message:  "model loaded",
	}, nil
}

// Unload releases the resident model. It always succeeds.
func (m *Manager) Unload() types.LoadResponse {
	m.sess.Unload()
	return types.LoadResponse{Loaded: false, Message: "model unloaded"}
}

// Embed returns the embedding of text and, when a recorder is configured,
// records it. Recording failures are logged and never fail the request.
func (m *Manager) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := m.sess.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if m.recorder != nil {
		if rerr := m.recorder.Record(ctx, m.sess.Engine(), text, v); rerr != nil {
			m.log.Warn().Err(rerr).Msg("fingerprint record failed")
		}
	}
	return v, nil
}

const (
	defaultSearchK = 5
	maxSearchK     = 100
)

// Search embeds req.Text and ranks the recorded texts of the current engine
// by similarity to it. The query itself is not recorded.
func (m *Manager) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	if m.searcher == nil {
		return types.SearchResponse{}, session.ErrUnavailable("similarity search disabled: enable record_fingerprints")
	}
	k := req.K
	switch {
	case k < 0:
		return types.SearchResponse{}, session.ErrInvalidArgument(fmt.Sprintf("k must be >= 0, got %d", k))
	case k == 0:
		k = defaultSearchK
	case k > maxSearchK:
		k = maxSearchK
	}
	q, err := m.sess.Embed(ctx, req.Text)
	if err != nil {
		return types.SearchResponse{}, err
	}
	engine := m.sess.Engine()
	matches, err := m.searcher.Search(ctx, engine, q, k)
	if err != nil {
		return types.SearchResponse{}, err
	}
	resp := types.SearchResponse{Engine: engine, Results: make([]types.SearchHit, 0, len(matches))}
	for _, mt := range matches {
		resp.Results = append(resp.Results, types.SearchHit{Text: mt.Text, TextHash: mt.TextHash, Score: mt.Score})
	}
	return resp, nil
}
