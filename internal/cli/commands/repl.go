package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/internal/index"
	"github.com/leapstack-labs/jacl/pkg/format"
	"github.com/leapstack-labs/jacl/pkg/jacl"
)

const replPrompt = "jacl> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl <file>",
		Short: "Explore a JACL file interactively",
		Long: `Parse a file and start an interactive session for looking up paths.

Each line is a dotted path. Tab completes paths and dot-commands.`,
		Example: `  jacl repl app.jacl`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, args[0])
		},
	}
	return cmd
}

// replSession holds the state of one interactive session.
type replSession struct {
	file   string
	doc    *jacl.Document
	paths  []string
	vars   map[string]any
	out    io.Writer
	errOut io.Writer
}

func newREPLSession(file string, doc *jacl.Document, vars map[string]any, out, errOut io.Writer) *replSession {
	var paths []string
	for _, row := range index.Flatten(doc.Struct()) {
		paths = append(paths, row.Path)
	}
	return &replSession{file: file, doc: doc, paths: paths, vars: vars, out: out, errOut: errOut}
}

func runREPL(cmd *cobra.Command, file string) error {
	cmdCtx := NewCommandContext(cmd)

	doc, err := readDocument(file)
	if err != nil {
		return renderParseFailure(cmdCtx, err)
	}
	s := newREPLSession(file, doc, cmdCtx.Cfg.Vars, cmd.OutOrStdout(), cmd.ErrOrStderr())

	historyFile := ""
	if cmdCtx.Cfg.IndexPath != index.MemoryPath {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.IndexPath), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(s.out, "JACL REPL (%s, %d paths)\n", file, len(s.paths))
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if s.eval(line) {
			break
		}
	}
	return nil
}

// eval handles one input line and reports whether the session should end.
func (s *replSession) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	resolve := false
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		resolve = true
		line = strings.TrimSpace(rest)
	}

	res, err := s.doc.Lookup(line)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return false
	}
	if !res.IsValue {
		_, _ = fmt.Fprintf(s.out, "%s\n", res.Node.Kind())
		_ = format.Outline(s.out, res.Node.Struct())
		return false
	}

	v := res.Value
	if resolve {
		if v, err = jacl.ResolveVar(v, s.vars); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
	}
	_, _ = fmt.Fprintln(s.out, v.String())
	return false
}

func (s *replSession) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printJACLREPLHelp(s.out)
	case ".paths":
		prefix := ""
		if len(parts) > 1 {
			prefix = parts[1]
		}
		for _, p := range s.paths {
			if strings.HasPrefix(p, prefix) {
				_, _ = fmt.Fprintln(s.out, p)
			}
		}
	case ".tree":
		_ = format.Outline(s.out, s.doc.Struct())
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printJACLREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .paths [prefix]  List every path, optionally filtered by prefix
  .tree            Print the whole document
  .quit / .exit    Exit the REPL

Tips:
  - Enter a dotted path such as server.port to look it up
  - Prefix a path with ! to substitute $variables
  - Tab completion works for paths
`
	_, _ = fmt.Fprintln(w, help)
}

// completer creates a readline completer for document paths.
func (s *replSession) completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(s.paths)+5)
	for _, p := range s.paths {
		items = append(items, readline.PcItem(p))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".paths"),
		readline.PcItem(".tree"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
