package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"modelbridge/internal/httpapi"
	"modelbridge/internal/manager"
	"modelbridge/internal/registry"
	"modelbridge/internal/session"
)

// createTempModelsDir writes a valid GGUF v3 header under each name and
// returns the directory.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, session.EncodeHeader(3, 0, 0), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// newServerForDir serves a manager whose registry is modelsDir. cfg.Registry
// is overwritten with the scan result.
func newServerForDir(t *testing.T, modelsDir string, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	cfg.Registry = reg
	mgr := manager.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = mgr.Close() })
	return srv, mgr
}

func newSession(t *testing.T, engine string, requireModel bool) *session.Session {
	t.Helper()
	loader, err := session.NewLoader(engine, session.LoaderOptions{})
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	return session.NewWithConfig(session.Config{Loader: loader, Engine: engine, RequireModel: requireModel})
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
