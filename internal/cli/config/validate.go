package config

import (
	"fmt"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "auto", "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q (expected auto, text, json or yaml)", c.OutputFormat)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	if c.IndexPath == "" {
		return fmt.Errorf("index_path is required")
	}
	return nil
}

// HasExtension reports whether path ends in one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
