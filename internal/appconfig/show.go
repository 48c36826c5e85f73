package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	effective := Defaults()
	if cfg != nil {
		effective = *cfg
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Host:        %s\n", effective.ServerURL())
	fmt.Fprintf(out, "  Model:       %s\n", effective.Model)
	fmt.Fprintf(out, "  Dialect:     %s\n", effective.Dialect)
	fmt.Fprintf(out, "  Input:       %s\n", effective.InputPath)
	fmt.Fprintf(out, "  Output:      %s (%s)\n", effective.OutputPath, effective.OutputFormat())
	fmt.Fprintf(out, "  Timeout:     %s\n", effective.RequestTimeout())
	fmt.Fprintf(out, "  Log File:    %s\n", effective.LogFilePath())
	fmt.Fprintf(out, "  Debug:       %v\n", effective.Debug)
	if effective.CheckpointEnabled() {
		fmt.Fprintf(out, "  Checkpoint:  %s\n", effective.CheckpointPath)
		fmt.Fprintf(out, "  Save Every:  %d rows\n", effective.SaveEvery)
		fmt.Fprintf(out, "  Fresh Start: %v\n", effective.Fresh)
	}
}
