package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults. A negative
// EmbedCacheSize disables the embedding cache.
type Config struct {
	Addr               string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir          string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	ModelPath          string   `json:"model_path" yaml:"model_path" toml:"model_path"`
	Engine             string   `json:"engine" yaml:"engine" toml:"engine"`
	RequireModel       bool     `json:"require_model" yaml:"require_model" toml:"require_model"`
	EmbedCacheSize     int      `json:"embed_cache_size" yaml:"embed_cache_size" toml:"embed_cache_size"`
	FingerprintDB      string   `json:"fingerprint_db" yaml:"fingerprint_db" toml:"fingerprint_db"`
	RecordFingerprints bool     `json:"record_fingerprints" yaml:"record_fingerprints" toml:"record_fingerprints"`
	LogLevel           string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat          string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins        []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LlamaCtx           int      `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads       int      `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
}

// Engines accepted by Validate.
var Engines = []string{"placeholder", "gguf", "llama"}

// Default returns the configuration used when no file or env overrides are given.
func Default() Config {
	return Config{
		Addr:           ":8080",
		ModelsDir:      "~/models",
		ModelPath:      "/models/test.bin",
		Engine:         "placeholder",
		EmbedCacheSize: 1024,
		LogLevel:       "info",
		LogFormat:      "console",
		MaxBodyBytes:   1 << 20,
		CORSOrigins:    []string{"*"},
		LlamaCtx:       2048,
		LlamaThreads:   4,
	}
}

// WithDefaults fills every unspecified field from Default.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = d.ModelsDir
	}
	if c.ModelPath == "" {
		c.ModelPath = d.ModelPath
	}
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.EmbedCacheSize == 0 {
		c.EmbedCacheSize = d.EmbedCacheSize
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = d.CORSOrigins
	}
	if c.LlamaCtx == 0 {
		c.LlamaCtx = d.LlamaCtx
	}
	if c.LlamaThreads == 0 {
		c.LlamaThreads = d.LlamaThreads
	}
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// EnvPrefix is prepended to every field name for environment overrides,
// e.g. MODELBRIDGE_ENGINE=gguf.
const EnvPrefix = "MODELBRIDGE_"

// ApplyEnv overrides fields from the environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var firstErr error
	num := func(name string, set func(int64)) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			return
		}
		set(n)
	}
	flag := func(name string, dst *bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			return
		}
		*dst = b
	}

	str("ADDR", &c.Addr)
	str("MODELS_DIR", &c.ModelsDir)
	str("MODEL_PATH", &c.ModelPath)
	str("ENGINE", &c.Engine)
	flag("REQUIRE_MODEL", &c.RequireModel)
	num("EMBED_CACHE_SIZE", func(n int64) { c.EmbedCacheSize = int(n) })
	str("FINGERPRINT_DB", &c.FingerprintDB)
	flag("RECORD_FINGERPRINTS", &c.RecordFingerprints)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	num("MAX_BODY_BYTES", func(n int64) { c.MaxBodyBytes = n })
	flag("CORS_ENABLED", &c.CORSEnabled)
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = SplitCSV(v)
	}
	num("LLAMA_CTX", func(n int64) { c.LlamaCtx = int(n) })
	num("LLAMA_THREADS", func(n int64) { c.LlamaThreads = int(n) })
	return firstErr
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	known := false
	for _, e := range Engines {
		if c.Engine == e {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("engine %q: want one of %s", c.Engine, strings.Join(Engines, ", "))
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must be >= 0, got %d", c.MaxBodyBytes)
	}
	if c.LlamaCtx < 0 || c.LlamaThreads < 0 {
		return fmt.Errorf("llama_ctx and llama_threads must be >= 0")
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format %q: want console or json", c.LogFormat)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if c.RecordFingerprints && c.FingerprintDB == "" {
		return fmt.Errorf("record_fingerprints requires fingerprint_db")
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming spaces and dropping empty items.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
