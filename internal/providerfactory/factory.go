// internal/providerfactory/factory.go
package providerfactory

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/probelab/promptprobe/internal/logging"
	"github.com/probelab/promptprobe/internal/providers"
	"github.com/probelab/promptprobe/internal/providers/ollama"
	"github.com/probelab/promptprobe/internal/providers/openai"
)

// New selects and configures the completion provider for the configured
// dialect. With dialect=auto the server itself is probed to decide which
// dialect it speaks.
func New(ctx context.Context, cfg *appconfig.Config) (providers.CompletionProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	dialect := strings.ToLower(strings.TrimSpace(cfg.Dialect))
	if dialect == "" || dialect == appconfig.DialectAuto {
		dialect = DetectDialect(ctx, cfg.ServerURL())
		logging.LogEvent("detected %s dialect at %s", dialect, cfg.ServerURL())
	}

	switch dialect {
	case appconfig.DialectOllama:
		return ollama.New(cfg), nil
	case appconfig.DialectOpenAI:
		return openai.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
}

// DetectDialect probes the server's model-listing paths to decide which
// dialect it speaks: the OpenAI-compatible path first, then the Ollama path.
// When neither answers, Ollama is assumed so a later request surfaces the
// real transport error.
func DetectDialect(ctx context.Context, serverURL string) string {
	client := &http.Client{Timeout: appconfig.DefaultProbeTimeout}

	if probe(ctx, client, serverURL+"/v1/models") {
		return appconfig.DialectOpenAI
	}
	if probe(ctx, client, serverURL+"/api/tags") {
		return appconfig.DialectOllama
	}
	return appconfig.DialectOllama
}

func probe(ctx context.Context, client *http.Client, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, appconfig.DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
