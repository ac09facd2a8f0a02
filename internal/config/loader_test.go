package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodels_dir: /tmp\nengine: gguf\nrequire_model: true\nembed_cache_size: 7\ncors_origins: [\"http://a\", \"http://b\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelsDir != "/tmp" || cfg.Engine != "gguf" || !cfg.RequireModel || cfg.EmbedCacheSize != 7 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_path":"/m/x.gguf","log_format":"json","max_body_bytes":42}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelPath != "/m/x.gguf" || cfg.LogFormat != "json" || cfg.MaxBodyBytes != 42 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nfingerprint_db=\"/x/fp.db\"\nrecord_fingerprints=true\nllama_threads=9\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.FingerprintDB != "/x/fp.db" || !cfg.RecordFingerprints || cfg.LlamaThreads != 9 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{Addr: ":1234", Engine: "gguf"}.WithDefaults()
	if cfg.Addr != ":1234" || cfg.Engine != "gguf" {
		t.Fatalf("explicit fields overwritten: %+v", cfg)
	}
	d := Default()
	if cfg.ModelPath != d.ModelPath || cfg.EmbedCacheSize != d.EmbedCacheSize || cfg.MaxBodyBytes != d.MaxBodyBytes {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
