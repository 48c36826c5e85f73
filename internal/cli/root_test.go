// internal/cli/root_test.go
package promptprobe

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"promptprobe\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

// TestCommandsRegistered checks that every operator-facing command is wired
// onto the root command.
func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run":      false,
		"diagnose": false,
		"models":   false,
		"validate": false,
		"show":     false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q is not registered", name)
		}
	}
}

// TestRootFlagDefaults checks the documented defaults on the persistent flags.
func TestRootFlagDefaults(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"host", "localhost:11434"},
		{"model", "llama3.2"},
		{"dialect", "auto"},
	}
	for _, tt := range tests {
		f := rootCmd.PersistentFlags().Lookup(tt.flag)
		if f == nil {
			t.Fatalf("flag %q not registered", tt.flag)
		}
		if f.DefValue != tt.want {
			t.Errorf("flag %q default = %q, want %q", tt.flag, f.DefValue, tt.want)
		}
	}
}
