// internal/batch/checkpoint.go
package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/probelab/promptprobe/internal/util"
)

// checkpoint records how far a batch run has progressed so an interrupted
// run can be resumed without repeating completed rows.
type checkpoint struct {
	LastRow    int    `json:"last_row"`
	Processed  int    `json:"processed_count"`
	TotalRows  int    `json:"total_rows"`
	OutputFile string `json:"output_file"`
	OutputMode string `json:"output_mode"`
	Model      string `json:"model"`
	Dialect    string `json:"dialect"`
}

func (c checkpoint) save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("could not write checkpoint to %q: %w", path, err)
	}
	return nil
}

// loadCheckpoint returns nil without error when no checkpoint file exists.
func loadCheckpoint(path string) (*checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read checkpoint %q: %w", path, err)
	}
	var c checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("could not parse checkpoint %q: %w", path, err)
	}
	return &c, nil
}
