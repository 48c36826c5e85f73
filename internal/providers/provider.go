// internal/providers/provider.go

// Package providers defines the interface for talking to local model-serving
// servers. Two wire dialects implement it: the Ollama native API and the
// OpenAI-compatible API exposed by llamafile and llama.cpp. Request framing
// differs per dialect; the rest of the application only sees prompts in and
// generated text out.
package providers

import (
	"context"
	"strings"
)

// Endpoint identifies a running model server.
type Endpoint struct {
	URL string
}

// Host returns the host:port portion of the endpoint URL for log lines.
func (e Endpoint) Host() string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(e.URL, "https://"), "http://")
	return strings.TrimRight(trimmed, "/")
}

// CompletionProvider is the interface both dialects implement. Calls are
// blocking round-trips bounded by the provider's configured timeout.
type CompletionProvider interface {
	// Name returns the dialect identifier ("ollama" or "openai").
	Name() string
	// Ping checks transport-level reachability of the server. Any HTTP
	// response counts as reachable; only connection-level failures error.
	Ping(ctx context.Context, ep Endpoint) error
	// ListModels returns the model identifiers the server currently hosts.
	ListModels(ctx context.Context, ep Endpoint) ([]string, error)
	// Complete sends one prompt and returns the generated text. An empty
	// generation is reported as an error.
	Complete(ctx context.Context, ep Endpoint, model, prompt string) (string, error)
}
