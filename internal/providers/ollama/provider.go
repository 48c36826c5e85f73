// internal/providers/ollama/provider.go
// Package ollama implements the flat-prompt completion dialect spoken by
// Ollama servers.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/probelab/promptprobe/internal/logging"
	"github.com/probelab/promptprobe/internal/providers"
)

// Provider implements providers.CompletionProvider against the Ollama HTTP API.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

// Name returns the dialect identifier.
func (p *Provider) Name() string { return appconfig.DialectOllama }

// Ping issues a lightweight GET against /api/tags. Any HTTP response means
// the server is reachable; only transport-level failures are reported.
func (p *Provider) Ping(ctx context.Context, ep providers.Endpoint) error {
	ctx, cancel := context.WithTimeout(ctx, appconfig.DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// tagsResponse defines the structure of the response from the /api/tags endpoint.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// generateResponse defines the structure of a non-streaming /api/generate response.
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ListModels returns the models hosted on the server via /api/tags.
func (p *Provider) ListModels(ctx context.Context, ep providers.Endpoint) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := ep.URL + "/api/tags"
	logging.LogRequest("APP->LLM", ep.Host(), "", map[string]string{"method": http.MethodGet, "url": endpoint})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: /api/tags returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if readErr != nil {
		return nil, readErr
	}
	logging.LogRequest("LLM->APP", ep.Host(), "", body)

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("ollama: could not parse /api/tags response: %w", err)
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// Complete sends one flat-prompt generate request and returns the response text.
func (p *Provider) Complete(ctx context.Context, ep providers.Endpoint, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	logging.LogRequest("APP->LLM", ep.Host(), model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	logging.LogRequest("LLM->APP", ep.Host(), model, respBody)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: /api/generate returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ollama: could not parse /api/generate response: %w", err)
	}

	output := strings.TrimSpace(result.Response)
	if output == "" {
		return "", fmt.Errorf("ollama: model %s returned an empty response", model)
	}
	return output, nil
}
