// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for completion requests.
	defaultRequestTimeout = 120 * time.Second
	// DefaultProbeTimeout bounds the lightweight reachability and dialect-detection requests.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultTrialTimeout bounds the diagnostic trial completion.
	DefaultTrialTimeout = 30 * time.Second
)

// Dialect values recognized by the configuration surface.
const (
	DialectAuto   = "auto"
	DialectOllama = "ollama"
	DialectOpenAI = "openai"
)

// Output format values for batch results.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Config represents the top-level application configuration. It is built once
// at startup and passed into the runner and the prober; nothing mutates it
// after load.
type Config struct {
	Host           string `json:"host" mapstructure:"host"`
	Model          string `json:"model" mapstructure:"model"`
	InputPath      string `json:"input" mapstructure:"input"`
	OutputPath     string `json:"output" mapstructure:"output"`
	Dialect        string `json:"dialect" mapstructure:"dialect"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	CheckpointPath string `json:"checkpoint,omitempty" mapstructure:"checkpoint"`
	SaveEvery      int    `json:"saveEvery,omitempty" mapstructure:"saveEvery"`
	Fresh          bool   `json:"fresh,omitempty" mapstructure:"fresh"`
	OutputMode     string `json:"outputMode,omitempty" mapstructure:"outputMode"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when no config file or flags are
// present.
func Defaults() Config {
	return Config{
		Host:       "localhost:11434",
		Model:      "llama3.2",
		InputPath:  "sample_data.csv",
		OutputPath: "results.json",
		Dialect:    DialectAuto,
	}
}

// ServerURL returns the base URL for the configured host, adding an http
// scheme when the host is given as a bare host:port.
func (c Config) ServerURL() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = Defaults().Host
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/")
	}
	return "http://" + strings.TrimRight(host, "/")
}

// RequestTimeout returns the timeout duration for completion requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OutputFormat resolves the batch output format. An explicit outputMode wins;
// otherwise a .jsonl extension selects JSONL and anything else selects a
// single JSON array.
func (c Config) OutputFormat() string {
	switch strings.ToLower(strings.TrimSpace(c.OutputMode)) {
	case FormatJSON:
		return FormatJSON
	case FormatJSONL:
		return FormatJSONL
	}
	if strings.EqualFold(filepath.Ext(c.OutputPath), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// CheckpointEnabled reports whether the runner should record and resume from
// a checkpoint file.
func (c Config) CheckpointEnabled() bool {
	return strings.TrimSpace(c.CheckpointPath) != ""
}

// LogFilePath returns the path to the application log file, applying a
// default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "promptprobe.log"
}

// Validate checks the parts of the configuration that cannot be defaulted
// away.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Dialect)) {
	case DialectAuto, DialectOllama, DialectOpenAI, "":
	default:
		return fmt.Errorf("unknown dialect %q (expected %s, %s, or %s)", c.Dialect, DialectAuto, DialectOllama, DialectOpenAI)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	return nil
}

// Load reads the application configuration from the specified path. A
// missing file is not an error: the defaults apply and flags may still
// override them.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config := Defaults()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}
