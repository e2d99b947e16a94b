package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/internal/index"
)

// IndexOptions holds options for the index command.
type IndexOptions struct {
	Keep int
}

// NewIndexCommand creates the index command and its subcommands.
func NewIndexCommand() *cobra.Command {
	opts := &IndexOptions{}

	cmd := &cobra.Command{
		Use:   "index [paths...]",
		Short: "Record parsed snapshots of JACL files",
		Long: `Parse files and store a flattened snapshot of each in the index database.

Files that fail to parse are reported and skipped. With --keep, older
snapshots of every indexed file are pruned.`,
		Example: `  # Index every .jacl file below the current directory
  jacl index

  # Keep only the latest three snapshots per file
  jacl index conf/ --keep 3

  # Show what is indexed
  jacl index list
  jacl index show conf/app.jacl server`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "Prune all but the newest N snapshots per file (0 keeps all)")

	cmd.AddCommand(newIndexListCommand())
	cmd.AddCommand(newIndexShowCommand())

	return cmd
}

// IndexResult is the structured outcome of indexing one file.
type IndexResult struct {
	File       string `json:"file" yaml:"file"`
	SnapshotID string `json:"snapshot_id,omitempty" yaml:"snapshot_id,omitempty"`
	Rows       int    `json:"rows" yaml:"rows"`
	Pruned     int64  `json:"pruned,omitempty" yaml:"pruned,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func openIndex(cmdCtx *CommandContext) (*index.Store, error) {
	store, err := index.Open(cmdCtx.Cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	cmdCtx.Logger.Debug("opened index", "path", store.Path())
	return store, nil
}

func runIndex(cmd *cobra.Command, args []string, opts *IndexOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Keep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	files, err := collectFiles(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}

	store, err := openIndex(cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	results := indexFiles(cmd.Context(), store, files, opts.Keep)

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}

	if handled, err := r.Structured(results); handled {
		if err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Error != "" {
				r.StatusLine(res.File, "error", res.Error)
				continue
			}
			detail := pluralize(res.Rows, "row")
			if res.Pruned > 0 {
				detail += fmt.Sprintf(", %d pruned", res.Pruned)
			}
			r.StatusLine(res.File, "success", detail)
		}
		r.Println("")
		r.Muted(fmt.Sprintf("Index: %s", store.Path()))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files could not be indexed", ErrCheckFailed, failed, len(results))
	}
	return nil
}

// indexFiles parses and snapshots each file. Files are stored by absolute
// path so the CLI and the language server agree on keys.
func indexFiles(ctx context.Context, store *index.Store, files []string, keep int) []IndexResult {
	results := make([]IndexResult, 0, len(files))
	for _, file := range files {
		key, err := filepath.Abs(file)
		if err != nil {
			key = file
		}
		res := IndexResult{File: key}

		doc, err := readDocument(file)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		id, err := store.WriteSnapshot(ctx, key, doc.Struct())
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.SnapshotID = id
		res.Rows = len(index.Flatten(doc.Struct()))

		if keep > 0 {
			if res.Pruned, err = store.Prune(ctx, key, keep); err != nil {
				res.Error = err.Error()
			}
		}
		results = append(results, res)
	}
	return results
}

func newIndexListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			store, err := openIndex(cmdCtx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := store.Files(cmd.Context())
			if err != nil {
				return err
			}
			if handled, err := r.Structured(files); handled {
				return err
			}
			if len(files) == 0 {
				r.Muted("No files indexed")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(r.Writer())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"File", "Snapshots", "Latest", "Updated"})
			for _, f := range files {
				t.AppendRow(table.Row{f.File, f.Snapshots, f.SnapshotID, f.UpdatedAt.Local().Format("2006-01-02 15:04:05")})
			}
			t.Render()
			return nil
		},
	}
}

func newIndexShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file> [path]",
		Short: "Show the latest snapshot of a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			key, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			store, err := openIndex(cmdCtx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var rows []index.Row
			if len(args) == 2 {
				rows, err = store.Subtree(cmd.Context(), key, args[1])
			} else {
				var snap *index.Snapshot
				if snap, err = store.Lookup(cmd.Context(), key); err == nil {
					rows = snap.Rows
				}
			}
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if handled, err := r.Structured(rows); handled {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(r.Writer())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Path", "Kind", "Type", "Value"})
			for _, row := range rows {
				t.AppendRow(table.Row{row.Path, row.Kind, row.ValueKind, row.Value})
			}
			t.Render()
			return nil
		},
	}
}
