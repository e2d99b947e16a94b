package cli

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/internal/cli/config"
	"github.com/leapstack-labs/jacl/internal/cli/output"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.Default(), cfg)
}

func TestGetConfigFromContext(t *testing.T) {
	want := &config.Config{OutputFormat: "json"}
	ctx := context.WithValue(context.Background(), configKey{}, want)
	assert.Same(t, want, GetConfig(ctx))
}

func TestGetRendererFallback(t *testing.T) {
	r := GetRenderer(context.Background())
	require.NotNil(t, r)

	want := output.NewRenderer(io.Discard, io.Discard, output.ModeYAML)
	ctx := context.WithValue(context.Background(), rendererKey{}, want)
	assert.Same(t, want, GetRenderer(ctx))
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"config", "output", "no-color", "verbose", "db"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q should exist", name)
	}
	assert.Equal(t, "o", cmd.PersistentFlags().Lookup("output").Shorthand)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"check", "tokens", "tree", "get", "repl", "index", "lsp", "version", "completion"})
}
