package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/internal/cli/output"
	"github.com/leapstack-labs/jacl/pkg/format"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	Stats bool
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the parsed structure of a JACL file",
		Long: `Parse a file and print the resulting tree.

Text output is an indented outline. JSON and YAML output keep entries and
properties in declaration order.`,
		Example: `  # Outline
  jacl tree app.jacl

  # Export as JSON
  jacl tree app.jacl -o json

  # Summary counts
  jacl tree app.jacl --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "Print summary counts instead of the tree")

	return cmd
}

func runTree(cmd *cobra.Command, file string, opts *TreeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	doc, err := readDocument(file)
	if err != nil {
		return renderParseFailure(cmdCtx, err)
	}
	st := doc.Struct()

	if opts.Stats {
		stats := format.Collect(st)
		if handled, err := r.Structured(stats); handled {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Item", "Count"})
		for _, row := range stats.Rows() {
			t.AppendRow(table.Row{row.Label, row.Count})
		}
		t.Render()
		return nil
	}

	var data []byte
	switch r.EffectiveMode() {
	case output.ModeJSON:
		data, err = format.ToJSON(st)
	case output.ModeYAML:
		data, err = format.ToYAML(st)
	default:
		r.Header(2, file)
		return format.Outline(r.Writer(), st)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", file, err)
	}
	_, err = r.Writer().Write(data)
	return err
}
