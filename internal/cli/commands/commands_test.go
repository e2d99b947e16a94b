package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns its stdout, stderr and error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const sampleDoc = `name = "demo"
port = 8080
server {
  host = $host
  tags = ("a", @ext, 2)
}
backends [
  primary {
    weight = 1.5
  }
  replica
]
limits {% cpu = 2; mem = 512 %}
`

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCheckCommand(), "check [paths...]", []string{"watch"}},
		{NewTokensCommand(), "tokens <file>", []string{"no-breaks"}},
		{NewTreeCommand(), "tree <file>", []string{"stats"}},
		{NewGetCommand(), "get <file> <path>", []string{"resolve"}},
		{NewREPLCommand(), "repl <file>", nil},
		{NewIndexCommand(), "index [paths...]", []string{"keep"}},
		{NewLSPCommand("test"), "lsp", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestIndexSubcommands(t *testing.T) {
	cmd := NewIndexCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	require.ElementsMatch(t, []string{"list", "show"}, names)
}
