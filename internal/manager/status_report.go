package manager

import (
	"time"

	"modelbridge/internal/session"
	"modelbridge/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	snap := m.sess.Snapshot()
	resp := types.StatusResponse{
		Loaded:        snap.State == session.StateLoaded,
		State:         string(snap.State),
		Handshake:     m.sess.Handshake(),
		Path:          snap.Path,
		HandleID:      snap.HandleID,
		HandleBytes:   snap.HandleBytes,
		LoadsTotal:    snap.Loads,
		UnloadsTotal:  snap.Unloads,
		EmbeddingDim:  m.sess.Dim(),
		Engine:        snap.Engine,
		RequireModel:  m.sess.RequireModel(),
		UptimeSeconds: int64(time.Since(m.startTime).Seconds()),
	}
	if resp.Loaded {
		resp.LoadedAtUnix = snap.LoadedAt.Unix()
	}
	return resp
}
