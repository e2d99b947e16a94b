package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/internal/cli/output"
	"github.com/leapstack-labs/jacl/pkg/format"
	"github.com/leapstack-labs/jacl/pkg/jacl"
)

// GetOptions holds options for the get command.
type GetOptions struct {
	Resolve bool
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	opts := &GetOptions{}

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Look up a dotted path in a JACL file",
		Long: `Follow a dotted path of entry and property names from the root of a file.

A Key property in the middle of a path is followed to the sibling entry it
names. With --resolve, variables are substituted from the configured vars.`,
		Example: `  # Print a property value
  jacl get app.jacl server.port

  # Print a whole structure as YAML
  jacl get app.jacl server -o yaml

  # Substitute $vars from jacl.yaml
  jacl get app.jacl server.host --resolve`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Resolve, "resolve", false, "Substitute $variables from the configured vars")

	return cmd
}

// GetOutput is the structured output of a value lookup.
type GetOutput struct {
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

func runGet(cmd *cobra.Command, file, path string, opts *GetOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	doc, err := readDocument(file)
	if err != nil {
		return renderParseFailure(cmdCtx, err)
	}

	res, err := doc.Lookup(path)
	if err != nil {
		return fmt.Errorf("lookup %s in %s: %w", path, file, err)
	}

	if res.IsValue {
		v := res.Value
		if opts.Resolve {
			if v, err = jacl.ResolveVar(v, cmdCtx.Cfg.Vars); err != nil {
				return fmt.Errorf("resolve %s: %w", path, err)
			}
		}
		if handled, err := r.Structured(GetOutput{Path: path, Kind: v.Kind.String(), Value: v.String()}); handled {
			return err
		}
		r.Println(v.String())
		return nil
	}

	st := res.Node.Struct()
	var data []byte
	switch r.EffectiveMode() {
	case output.ModeJSON:
		data, err = format.ToJSON(st)
	case output.ModeYAML:
		data, err = format.ToYAML(st)
	default:
		r.Header(2, fmt.Sprintf("%s (%s)", path, st.Kind))
		return format.Outline(r.Writer(), st)
	}
	if err != nil {
		return err
	}
	_, err = r.Writer().Write(data)
	return err
}
