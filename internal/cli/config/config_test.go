package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/internal/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "jacl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, []string{".jacl"}, cfg.Extensions)
	assert.Equal(t, 100*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), ".jacl", "index.db"), cfg.IndexPath)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.NotNil(t, cfg.Vars)
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `output: json
extensions: [".jacl", ".conf"]
watch_debounce: 250ms
index_path: /tmp/custom.db
vars:
  host: example.org
  port: 8080
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, []string{".jacl", ".conf"}, cfg.Extensions)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, "/tmp/custom.db", cfg.IndexPath)
	assert.Equal(t, "example.org", cfg.Vars["host"])
	assert.True(t, cfg.HasExtension("a/b.conf"))
	assert.False(t, cfg.HasExtension("a/b.yaml"))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidOutput(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(writeConfig(t, "output: markdown\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("JACL_OUTPUT", "yaml")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat, "env var should override config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("JACL_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "output format")
	flags.Bool("no-color", false, "disable color")
	require.NoError(t, flags.Set("output", "json"))
	require.NoError(t, flags.Set("no-color", "true"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat, "flag value should override config file and env var")
	assert.True(t, cfg.NoColor, "kebab-case flags map to snake_case keys")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: text\n")
	t.Setenv("JACL_OUTPUT", "yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "auto", "output format")

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
}

func TestLoadConfig_DBFlagMapsToIndexPath(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "index_path: from_file.db\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "index database")
	require.NoError(t, flags.Set("db", "from_flag.db"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	want, _ := filepath.Abs("from_flag.db")
	assert.Equal(t, want, cfg.IndexPath, "flag paths resolve against the working directory")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output format"},
		{"no extensions", func(c *Config) { c.Extensions = nil }, "at least one"},
		{"extension without dot", func(c *Config) { c.Extensions = []string{"jacl"} }, "must start with '.'"},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }, "must not be negative"},
		{"no index path", func(c *Config) { c.IndexPath = "" }, "index_path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := testutil.NewTestLogger(t)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
