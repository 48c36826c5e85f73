// internal/appconfig/appconfig_test.go
package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoad verifies that a valid configuration file is loaded with defaults
// filled in, that a missing file falls back to defaults without error, and
// that malformed JSON is reported.
func TestLoad(t *testing.T) {
	validConfig := `{
        "host": "gpubox:8080",
        "model": "mistral",
        "dialect": "openai",
        "timeout": 30
    }`
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(validConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.Host != "gpubox:8080" {
		t.Fatalf("expected host gpubox:8080, got %q", cfg.Host)
	}
	if cfg.Model != "mistral" {
		t.Fatalf("expected model mistral, got %q", cfg.Model)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.InputPath != "sample_data.csv" {
		t.Fatalf("expected default input path, got %q", cfg.InputPath)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.ConfigPath)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() with missing file should not error, got: %v", err)
	}
	if cfg.Host != Defaults().Host {
		t.Fatalf("expected default host, got %q", cfg.Host)
	}
	if cfg.Model != "llama3.2" {
		t.Fatalf("expected default model llama3.2, got %q", cfg.Model)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"localhost:11434", "http://localhost:11434"},
		{"http://localhost:11434", "http://localhost:11434"},
		{"https://models.example.com/", "https://models.example.com"},
		{"", "http://localhost:11434"},
	}
	for _, tt := range tests {
		cfg := Config{Host: tt.host}
		if got := cfg.ServerURL(); got != tt.want {
			t.Fatalf("ServerURL(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"default json", Config{OutputPath: "results.json"}, FormatJSON},
		{"jsonl by extension", Config{OutputPath: "results.jsonl"}, FormatJSONL},
		{"explicit mode wins", Config{OutputPath: "results.jsonl", OutputMode: "json"}, FormatJSON},
		{"explicit jsonl", Config{OutputPath: "out.dat", OutputMode: "jsonl"}, FormatJSONL},
	}
	for _, tt := range tests {
		if got := tt.cfg.OutputFormat(); got != tt.want {
			t.Fatalf("%s: OutputFormat() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRequestTimeoutDefault(t *testing.T) {
	cfg := Config{}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default 120s, got %v", cfg.RequestTimeout())
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got: %v", err)
	}

	cfg.Dialect = "grpc"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
	if !strings.Contains(err.Error(), "grpc") {
		t.Fatalf("expected dialect name in error, got: %v", err)
	}

	cfg = Defaults()
	cfg.Model = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestShowConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Host = "gpubox:8080"
	var out strings.Builder
	ShowConfig(&out, "config/config.json", &cfg)
	if !strings.Contains(out.String(), "Config file: config/config.json") {
		t.Fatalf("expected config file line, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "http://gpubox:8080") {
		t.Fatalf("expected resolved host, got: %s", out.String())
	}

	out.Reset()
	ShowConfig(&out, "", nil)
	if !strings.Contains(out.String(), "No config file loaded") {
		t.Fatalf("expected defaults notice, got: %s", out.String())
	}
}

func TestCheckpointEnabled(t *testing.T) {
	if (Config{}).CheckpointEnabled() {
		t.Fatal("empty checkpoint path should disable checkpointing")
	}
	if !(Config{CheckpointPath: "c.json"}).CheckpointEnabled() {
		t.Fatal("expected checkpointing enabled")
	}
}
