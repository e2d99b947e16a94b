// Package config provides configuration management for the jacl CLI.
//
// Values are layered with koanf: built-in defaults, then jacl.yaml, then
// JACL_* environment variables, then explicitly set command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat  string         `koanf:"output"`
	NoColor       bool           `koanf:"no_color"`
	Verbose       bool           `koanf:"verbose"`
	Extensions    []string       `koanf:"extensions"`
	Vars          map[string]any `koanf:"vars"`
	WatchDebounce time.Duration  `koanf:"watch_debounce"`
	IndexPath     string         `koanf:"index_path"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput        = "auto"
	DefaultIndexPath     = ".jacl/index.db"
	DefaultWatchDebounce = 100 * time.Millisecond
	DefaultExtension     = ".jacl"
)

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		OutputFormat:  DefaultOutput,
		Extensions:    []string{DefaultExtension},
		Vars:          map[string]any{},
		WatchDebounce: DefaultWatchDebounce,
		IndexPath:     DefaultIndexPath,
	}
}
