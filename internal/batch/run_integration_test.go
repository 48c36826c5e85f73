// internal/batch/run_integration_test.go
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/probelab/promptprobe/internal/providers/ollama"
)

// TestRunAgainstOllamaServer exercises the whole path from CSV to results
// file against a fake Ollama endpoint.
func TestRunAgainstOllamaServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.Unmarshal(body, &req)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"model": "llama3.2", "response": "echo: " + req.Prompt, "done": true}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(inputPath, []byte("text\nHello, how are you?\nWhat is AI?\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := appconfig.Defaults()
	cfg.Host = server.URL
	cfg.OutputPath = filepath.Join(dir, "results.json")
	cfg.TimeoutSeconds = 5

	prompts, err := LoadPrompts(inputPath)
	if err != nil {
		t.Fatalf("LoadPrompts error: %v", err)
	}

	runner := NewRunner(&cfg, ollama.New(&cfg))
	runner.SetProgressWriter(&bytes.Buffer{})

	results, err := runner.Run(context.Background(), prompts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RowNumber != 1 || results[0].InputText != "Hello, how are you?" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].RowNumber != 2 || results[1].InputText != "What is AI?" {
		t.Fatalf("unexpected second result: %+v", results[1])
	}
	for _, r := range results {
		if r.Response == "" || strings.HasPrefix(r.Response, ErrorMarker) {
			t.Fatalf("expected populated responses, got %+v", r)
		}
	}

	if err := ValidateResultsFile(cfg.OutputPath); err != nil {
		t.Fatalf("written results failed validation: %v", err)
	}
}

// TestRunAgainstFailingServer covers the per-row failure contract: a 500 for
// the only row still yields one record, error-marked, with the input intact.
func TestRunAgainstFailingServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(inputPath, []byte("text\nOnly prompt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := appconfig.Defaults()
	cfg.Host = server.URL
	cfg.OutputPath = filepath.Join(dir, "results.json")
	cfg.TimeoutSeconds = 5

	prompts, err := LoadPrompts(inputPath)
	if err != nil {
		t.Fatalf("LoadPrompts error: %v", err)
	}

	runner := NewRunner(&cfg, ollama.New(&cfg))
	runner.SetProgressWriter(&bytes.Buffer{})

	results, err := runner.Run(context.Background(), prompts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !strings.HasPrefix(results[0].Response, ErrorMarker) {
		t.Fatalf("expected error marker, got %q", results[0].Response)
	}
	if results[0].InputText != "Only prompt" {
		t.Fatalf("input text must be preserved, got %q", results[0].InputText)
	}
}
