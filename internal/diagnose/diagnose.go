// internal/diagnose/diagnose.go
// Package diagnose implements the pre-flight connectivity check: server
// reachability, model listing, and one trial completion, strictly in that
// order. The prober halts at the first failing stage so the operator sees
// the earliest cause, not a cascade.
package diagnose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/probelab/promptprobe/internal/providers"
	"github.com/probelab/promptprobe/internal/util"
)

// State is how far the staged check progressed.
type State string

const (
	StateUnreached         State = "unreached"
	StateReached           State = "reached"
	StateModelUnknown      State = "model-unknown"
	StateModelUnresponsive State = "model-unresponsive"
	StateVerified          State = "verified"
)

// trialPrompt is the short prompt sent to confirm the model responds.
const trialPrompt = "Hello"

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Prober runs the three-stage connectivity check against one endpoint.
type Prober struct {
	cfg      *appconfig.Config
	provider providers.CompletionProvider
	endpoint providers.Endpoint
	out      io.Writer
}

// New builds a Prober for the configured endpoint and dialect provider.
func New(cfg *appconfig.Config, provider providers.CompletionProvider, out io.Writer) *Prober {
	return &Prober{
		cfg:      cfg,
		provider: provider,
		endpoint: providers.Endpoint{URL: cfg.ServerURL()},
		out:      out,
	}
}

// Run executes the staged check and returns the state it reached. The error
// is nil only when the state is StateVerified. Stages never run out of
// order: a failure stops the prober where it stands.
func (p *Prober) Run(ctx context.Context) (State, error) {
	fmt.Fprintf(p.out, "Checking %s server at %s...\n", p.provider.Name(), p.endpoint.URL)

	if err := p.provider.Ping(ctx, p.endpoint); err != nil {
		p.fail("Server is not reachable: %v", err)
		p.hint("Make sure the server is running (for Ollama: ollama serve)")
		p.hint("Check that port %s is correct and not blocked", p.endpoint.Host())
		if errors.Is(err, context.DeadlineExceeded) {
			return StateUnreached, fmt.Errorf("server at %s timed out: %w", p.endpoint.URL, err)
		}
		return StateUnreached, fmt.Errorf("server at %s is not reachable: %w", p.endpoint.URL, err)
	}
	p.pass("Server is reachable")

	models, err := p.provider.ListModels(ctx, p.endpoint)
	if err != nil {
		p.fail("Server reachable but model listing failed: %v", err)
		return StateReached, fmt.Errorf("server reachable but model listing failed: %w", err)
	}
	if len(models) == 0 {
		p.fail("Server hosts no models")
		p.hint("Download a model first (for Ollama: ollama pull %s)", p.cfg.Model)
		return StateReached, fmt.Errorf("server at %s hosts no models", p.endpoint.URL)
	}
	p.pass("Available models (%d): %s", len(models), strings.Join(models, ", "))

	if !containsModel(models, p.cfg.Model) {
		p.fail("Model %q is not hosted on this server", p.cfg.Model)
		p.hint("Available: %s", strings.Join(models, ", "))
		p.hint("Pick one with --model, or pull it (for Ollama: ollama pull %s)", p.cfg.Model)
		return StateModelUnknown, fmt.Errorf("model %q not found; available models: %s", p.cfg.Model, strings.Join(models, ", "))
	}
	p.pass("Model %q is available", p.cfg.Model)

	trialCtx, cancel := context.WithTimeout(ctx, appconfig.DefaultTrialTimeout)
	defer cancel()
	response, err := p.provider.Complete(trialCtx, p.endpoint, p.cfg.Model, trialPrompt)
	if err != nil {
		p.fail("Model %q did not answer the trial prompt: %v", p.cfg.Model, err)
		p.hint("The model may still be loading or the server may be out of resources")
		return StateModelUnresponsive, fmt.Errorf("model %q did not respond: %w", p.cfg.Model, err)
	}

	// Non-empty is the whole success criterion for the trial; the response
	// is printed for the operator to eyeball.
	p.pass("Model responded: %s", util.TruncateRunes(response, 100))
	fmt.Fprintln(p.out, "Diagnostic complete: all checks passed.")
	return StateVerified, nil
}

func containsModel(models []string, name string) bool {
	for _, m := range models {
		if m == name {
			return true
		}
	}
	return false
}

func (p *Prober) pass(format string, args ...any) {
	fmt.Fprintln(p.out, passStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *Prober) fail(format string, args ...any) {
	fmt.Fprintln(p.out, failStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func (p *Prober) hint(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render("  "+fmt.Sprintf(format, args...)))
}
