// internal/providers/openai/provider.go
// Package openai implements the chat-message completion dialect exposed by
// OpenAI-compatible servers such as llamafile and llama.cpp.
package openai

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

// localBearerToken satisfies the Authorization header shape llamafile expects.
// The value itself is not validated by local servers.
const localBearerToken = "Bearer sk-local-123"

// Provider implements providers.CompletionProvider against the
// OpenAI-compatible HTTP API.
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
func (p *Provider) Name() string { return appconfig.DialectOpenAI }

// Ping issues a lightweight GET against /v1/models. Any HTTP response means
// the server is reachable; only transport-level failures are reported.
func (p *Provider) Ping(ctx context.Context, ep providers.Endpoint) error {
	ctx, cancel := context.WithTimeout(ctx, appconfig.DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL+"/v1/models", nil)
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

// modelsResponse defines the structure of the response from the /v1/models endpoint.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// chatMessage is one entry in a chat conversation payload.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse defines the structure of a non-streaming /v1/chat/completions response.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ListModels returns the models hosted on the server via /v1/models.
func (p *Provider) ListModels(ctx context.Context, ep providers.Endpoint) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := ep.URL + "/v1/models"
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
		return nil, fmt.Errorf("openai: /v1/models returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if readErr != nil {
		return nil, readErr
	}
	logging.LogRequest("LLM->APP", ep.Host(), "", body)

	var models modelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("openai: could not parse /v1/models response: %w", err)
	}

	ids := make([]string, len(models.Data))
	for i, m := range models.Data {
		ids[i] = m.ID
	}
	return ids, nil
}

// Complete wraps the prompt in a one-message conversation and returns the
// first choice's content.
func (p *Provider) Complete(ctx context.Context, ep providers.Endpoint, model, prompt string) (string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []chatMessage{
			{Role: "user", Content: prompt},
		},
		"stream": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	logging.LogRequest("APP->LLM", ep.Host(), model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", localBearerToken)

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
		return "", fmt.Errorf("openai: /v1/chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai: could not parse /v1/chat/completions response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: response contained no choices")
	}

	output := strings.TrimSpace(result.Choices[0].Message.Content)
	if output == "" {
		return "", fmt.Errorf("openai: model %s returned an empty response", model)
	}
	return output, nil
}
