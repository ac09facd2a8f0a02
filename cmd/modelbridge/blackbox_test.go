package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"modelbridge/internal/session"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func buildBinary(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/cmd/modelbridge/blackbox_test.go
	root := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binPath := filepath.Join(t.TempDir(), "modelbridge")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/modelbridge")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return binPath
}

func startServer(t *testing.T, bin string, env ...string) string {
	t.Helper()
	port := findFreePort(t)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, "serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port))
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill(); _ = cmd.Wait() })
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func do(t *testing.T, method, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_GGUFFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}
	bin := buildBinary(t)
	modelsDir := t.TempDir()
	for _, n := range []string{"alpha.gguf", "beta.gguf"} {
		if err := os.WriteFile(filepath.Join(modelsDir, n), session.EncodeHeader(3, 0, 0), 0o644); err != nil {
			t.Fatalf("write model: %v", err)
		}
	}
	base := startServer(t, bin,
		"MODELBRIDGE_ENGINE=gguf",
		"MODELBRIDGE_MODELS_DIR="+modelsDir,
		"MODELBRIDGE_MODEL_PATH="+filepath.Join(modelsDir, "alpha.gguf"),
	)

	resp, body := do(t, http.MethodGet, base+"/models", nil)
	var models struct {
		Models []struct {
			ID string `json:"id"`
		} `json:"models"`
	}
	if resp.StatusCode != http.StatusOK || json.Unmarshal(body, &models) != nil || len(models.Models) != 2 {
		t.Fatalf("/models %d %s", resp.StatusCode, body)
	}

	if resp, body := do(t, http.MethodGet, base+"/readyz", nil); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz initial %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, http.MethodPost, base+"/load", []byte(`{}`)); resp.StatusCode != http.StatusOK {
		t.Fatalf("/load default %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, http.MethodGet, base+"/readyz", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz after load %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, http.MethodPost, base+"/load", []byte(`{"model":"missing.gguf"}`)); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("/load missing %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, http.MethodPost, base+"/embed", []byte(`{"text":"ping"}`)); resp.StatusCode != http.StatusOK {
		t.Fatalf("/embed %d %s", resp.StatusCode, body)
	}
	if resp, body := do(t, http.MethodPost, base+"/unload", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("/unload %d %s", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodGet, base+"/metrics", nil)
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("modelbridge_session_loads_total")) {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}
