// internal/batch/batch.go
// Package batch converts a CSV column of prompts into a JSON array of model
// responses, one blocking request per row.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/probelab/promptprobe/internal/appconfig"
	"github.com/probelab/promptprobe/internal/logging"
	"github.com/probelab/promptprobe/internal/providers"
	"github.com/probelab/promptprobe/internal/util"
)

// ErrorMarker prefixes the response field of rows whose model call failed,
// so failures can be told apart from real model output when auditing the
// output file.
const ErrorMarker = "ERROR: "

// Result is one row's full outcome.
type Result struct {
	RowNumber int    `json:"row_number"`
	InputText string `json:"input_text"`
	Response  string `json:"response"`
}

// Runner drives the sequential request loop. It issues request N+1 only
// after request N has completed, so the only state is the results slice
// being appended to.
type Runner struct {
	cfg      *appconfig.Config
	provider providers.CompletionProvider
	endpoint providers.Endpoint
	progress io.Writer
}

// NewRunner builds a Runner for the configured endpoint and dialect provider.
func NewRunner(cfg *appconfig.Config, provider providers.CompletionProvider) *Runner {
	return &Runner{
		cfg:      cfg,
		provider: provider,
		endpoint: providers.Endpoint{URL: cfg.ServerURL()},
		progress: os.Stdout,
	}
}

// SetProgressWriter redirects per-row progress lines, primarily for tests.
func (r *Runner) SetProgressWriter(w io.Writer) {
	r.progress = w
}

// Run processes every prompt in order and writes the accumulated results to
// the configured output path. A failed row is recorded with ErrorMarker and
// the batch continues; Run itself only fails on I/O problems with the output
// or checkpoint files.
func (r *Runner) Run(ctx context.Context, prompts []Prompt) ([]Result, error) {
	total := len(prompts)
	format := r.cfg.OutputFormat()

	results, ckpt, err := r.resume(total)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	processedSinceSave := 0

	for _, p := range prompts {
		if p.RowNumber <= ckpt.LastRow {
			continue
		}

		fmt.Fprintf(r.progress, "[%d/%d] Prompt: %s\n", p.RowNumber, total, util.TruncateRunes(p.Text, 50))

		response, err := r.provider.Complete(ctx, r.endpoint, r.cfg.Model, p.Text)
		if err != nil {
			response = ErrorMarker + err.Error()
			logging.LogEvent("row %d failed: %v", p.RowNumber, err)
		}

		result := Result{
			RowNumber: p.RowNumber,
			InputText: p.Text,
			Response:  response,
		}
		results = append(results, result)
		processedSinceSave++
		ckpt.LastRow = p.RowNumber
		ckpt.Processed++

		if format == appconfig.FormatJSONL {
			if err := appendJSONL(r.cfg.OutputPath, result); err != nil {
				return nil, err
			}
		}

		fmt.Fprintf(r.progress, "[%d/%d] Response: %s (elapsed %s)\n",
			p.RowNumber, total, util.TruncateRunes(response, 100), time.Since(start).Round(time.Second))

		if r.cfg.SaveEvery > 0 && processedSinceSave >= r.cfg.SaveEvery {
			if format == appconfig.FormatJSON {
				if err := writeJSON(r.cfg.OutputPath, results); err != nil {
					return nil, err
				}
			}
			if err := r.saveCheckpoint(ckpt, total); err != nil {
				return nil, err
			}
			processedSinceSave = 0
		}
	}

	if format == appconfig.FormatJSON {
		if err := writeJSON(r.cfg.OutputPath, results); err != nil {
			return nil, err
		}
	}
	if err := r.saveCheckpoint(ckpt, total); err != nil {
		return nil, err
	}

	fmt.Fprintf(r.progress, "Processed %d/%d rows in %s; results saved to %s\n",
		ckpt.Processed, total, time.Since(start).Round(time.Second), r.cfg.OutputPath)
	return results, nil
}

// resume loads prior progress when checkpointing is enabled and a fresh start
// was not requested. In JSON array mode previously written results are
// reloaded so the final write still contains every processed row.
func (r *Runner) resume(total int) ([]Result, checkpoint, error) {
	var results []Result
	var ckpt checkpoint

	if !r.cfg.CheckpointEnabled() || r.cfg.Fresh {
		return results, ckpt, nil
	}

	loaded, err := loadCheckpoint(r.cfg.CheckpointPath)
	if err != nil {
		return nil, checkpoint{}, err
	}
	if loaded == nil {
		return results, ckpt, nil
	}
	ckpt = *loaded
	fmt.Fprintf(r.progress, "Resuming from checkpoint at row %d (%d/%d processed)\n", ckpt.LastRow, ckpt.Processed, total)

	if r.cfg.OutputFormat() == appconfig.FormatJSON {
		prior, err := readJSON(r.cfg.OutputPath)
		if err != nil {
			return nil, checkpoint{}, err
		}
		results = prior
	}
	return results, ckpt, nil
}

func (r *Runner) saveCheckpoint(ckpt checkpoint, total int) error {
	if !r.cfg.CheckpointEnabled() {
		return nil
	}
	ckpt.TotalRows = total
	ckpt.OutputFile = r.cfg.OutputPath
	ckpt.OutputMode = r.cfg.OutputFormat()
	ckpt.Model = r.cfg.Model
	ckpt.Dialect = r.provider.Name()
	return ckpt.save(r.cfg.CheckpointPath)
}

// writeJSON serializes the complete ordered result sequence as one document.
func writeJSON(path string, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("could not write results to %q: %w", path, err)
	}
	return nil
}

// readJSON loads a previously written JSON array of results. A missing or
// malformed file yields an empty slice, matching a fresh start.
func readJSON(path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, nil
	}
	return results, nil
}

// appendJSONL appends a single result as one JSON line.
func appendJSONL(path string, result Result) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not append results to %q: %w", path, err)
	}
	defer file.Close()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not append results to %q: %w", path, err)
	}
	return nil
}
