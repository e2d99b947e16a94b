package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. Saved documents
are recorded in the index database when it can be opened.`,
		Example: `  # Start LSP server (usually called by an editor)
  jacl lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cmdCtx := NewCommandContext(cmd)
	server := lsp.NewServerWithOptions(os.Stdin, os.Stdout, lsp.Options{
		Logger:    cmdCtx.Logger,
		Vars:      cmdCtx.Cfg.Vars,
		IndexPath: cmdCtx.Cfg.IndexPath,
		Version:   version,
	})
	return server.Run()
}
