// cmd/promptprobe/main.go
package main

import (
	cmd "github.com/probelab/promptprobe/internal/cli"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the promptprobe CLI application by delegating to the cobra
// root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
