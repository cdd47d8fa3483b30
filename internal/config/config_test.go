package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vango-react/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Runtime != RuntimeSim {
		t.Errorf("Runtime = %q, want %q", cfg.Runtime, RuntimeSim)
	}
	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want %q", cfg.Inspect.Addr, DefaultInspectAddr)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultMetricsNamespace)
	}
	if cfg.Trace.Sink != SinkNone {
		t.Errorf("Trace.Sink = %q, want %q", cfg.Trace.Sink, SinkNone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	configYAML := `runtime: js
debug: true
log:
  level: debug
metrics:
  namespace: demo
trace:
  sink: s3
  format: yaml
  s3:
    bucket: traces-bucket
    region: eu-west-1
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime != RuntimeJS {
		t.Errorf("Runtime = %q, want %q", cfg.Runtime, RuntimeJS)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Metrics.Namespace != "demo" {
		t.Errorf("Metrics.Namespace = %q, want demo", cfg.Metrics.Namespace)
	}
	// Unset keys keep their defaults.
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to true")
	}
	if cfg.Trace.S3.Prefix != "traces/" {
		t.Errorf("Trace.S3.Prefix = %q, want traces/", cfg.Trace.S3.Prefix)
	}
	if cfg.Trace.S3.Bucket != "traces-bucket" || cfg.Trace.S3.Region != "eu-west-1" {
		t.Errorf("Trace.S3 = %+v", cfg.Trace.S3)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VANGO_REACT_LOG_LEVEL", "warn")
	t.Setenv("VANGO_REACT_INSPECT_ADDR", ":9999")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Inspect.Addr != ":9999" {
		t.Errorf("Inspect.Addr = %q, want :9999", cfg.Inspect.Addr)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	be, ok := err.(*errors.BridgeError)
	if !ok {
		t.Fatalf("error type = %T, want *BridgeError", err)
	}
	if be.Code != "R040" {
		t.Errorf("Code = %q, want R040", be.Code)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.HasPrefix(err.Error(), "R040") {
		t.Errorf("error = %v, want R040", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad runtime", func(c *Config) { c.Runtime = "node" }, "runtime must be"},
		{"bad format", func(c *Config) { c.Trace.Format = "xml" }, "trace.format"},
		{"bad sink", func(c *Config) { c.Trace.Sink = "ftp" }, "trace.sink"},
		{"file sink without dir", func(c *Config) {
			c.Trace.Sink = SinkFile
			c.Trace.Dir = ""
		}, "trace.dir"},
		{"s3 sink without bucket", func(c *Config) { c.Trace.Sink = SinkS3 }, "trace.s3.bucket"},
		{"s3 sink", func(c *Config) {
			c.Trace.Sink = SinkS3
			c.Trace.S3.Bucket = "b"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() should fail with %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
			if !strings.HasPrefix(err.Error(), "R041") {
				t.Errorf("Validate() error = %v, want R041", err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := New()
	cfg.Runtime = RuntimeJS
	cfg.Trace.Sink = SinkFile
	cfg.Trace.Format = FormatYAML
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if !Exists(dir) {
		t.Fatal("Exists() = false after SaveTo")
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Runtime != RuntimeJS || loaded.Trace.Sink != SinkFile || loaded.Trace.Format != FormatYAML {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "debug"
	cfg.Log.Development = true
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Error("debug level should be enabled")
	}

	cfg.Log.Level = "nope"
	if _, err := cfg.Logger(); err == nil {
		t.Error("Logger() should reject an unknown level")
	}
}
