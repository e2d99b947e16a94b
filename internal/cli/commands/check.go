package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/jacl/internal/cli/output"
	"github.com/leapstack-labs/jacl/pkg/parser"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// ErrCheckFailed is returned when at least one file has diagnostics.
var ErrCheckFailed = errors.New("check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check JACL files for lexical and syntax errors",
		Long: `Lex and parse every given file, and every file with a configured extension
under the given directories, reporting all diagnostics.

Lexical errors are all reported at once. Parsing stops at the first error
in a file. The command exits non-zero if any file fails.`,
		Example: `  # Check every .jacl file below the current directory
  jacl check

  # Check specific files and emit JSON
  jacl check app.jacl db.jacl -o json

  # Re-check on every change
  jacl check conf/ --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")

	return cmd
}

// DiagnosticReport is the structured form of a diagnostic.
type DiagnosticReport struct {
	Code     int    `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Hint     string `json:"hint,omitempty" yaml:"hint,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	Rendered string `json:"rendered" yaml:"rendered"`
}

// FileReport is the outcome of checking one file.
type FileReport struct {
	File        string             `json:"file" yaml:"file"`
	OK          bool               `json:"ok" yaml:"ok"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics []DiagnosticReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	rendered string
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)

	files, err := collectFiles(args, cmdCtx.Cfg)
	if err != nil {
		return err
	}

	if !opts.Watch {
		return checkOnce(cmd.Context(), cmdCtx, files)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndCheck(ctx, cmdCtx, args, files)
}

// checkOnce checks files, renders the reports and fails if any file failed.
func checkOnce(ctx context.Context, cmdCtx *CommandContext, files []string) error {
	reports, err := checkFiles(ctx, files)
	if err != nil {
		return err
	}
	failed, err := renderReports(cmdCtx.Renderer, reports)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files have errors", ErrCheckFailed, failed, len(reports))
	}
	return nil
}

// checkFiles parses files concurrently. Reports keep the order of files.
func checkFiles(ctx context.Context, files []string) ([]FileReport, error) {
	reports := make([]FileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = checkFile(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func checkFile(file string) FileReport {
	report := FileReport{File: file}

	_, err := readDocument(file)
	if err == nil {
		report.OK = true
		return report
	}

	se, ok := parser.AsSourceError(err)
	if !ok {
		report.Error = err.Error()
		return report
	}

	report.rendered = se.Render()
	report.Diagnostics = diagnosticReports(se)
	return report
}

// renderReports writes reports in the effective output mode and returns the
// number of failed files.
func renderReports(r *output.Renderer, reports []FileReport) (int, error) {
	failed := 0
	for _, rep := range reports {
		if !rep.OK {
			failed++
		}
	}

	if handled, err := r.Structured(reports); handled {
		return failed, err
	}

	for _, rep := range reports {
		switch {
		case rep.OK:
			r.StatusLine(rep.File, "success", "")
		case rep.Error != "":
			r.StatusLine(rep.File, "error", rep.Error)
		default:
			r.StatusLine(rep.File, "error", pluralize(len(rep.Diagnostics), "error"))
			r.Diagnostic(rep.rendered)
		}
	}

	r.Println("")
	if failed == 0 {
		r.Success(fmt.Sprintf("%s checked, no errors", pluralize(len(reports), "file")))
	} else {
		r.Error(fmt.Sprintf("%d of %s failed", failed, pluralize(len(reports), "file")))
	}
	return failed, nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// diagnosticReports converts the diagnostics of se to their structured form.
func diagnosticReports(se *parser.SourceError) []DiagnosticReport {
	out := make([]DiagnosticReport, 0, len(se.Errors))
	for _, e := range se.Errors {
		d := DiagnosticReport{
			Code:     e.Code,
			Message:  e.Message,
			Hint:     e.Hint,
			Rendered: e.Render(se.Source, se.Lines),
		}
		if e.Token != nil {
			d.Line = e.Token.Pos.Line
			d.Column = e.Token.Pos.Column
		}
		out = append(out, d)
	}
	return out
}

// renderParseFailure reports a failed readDocument call in the active output
// mode and returns the error that sets the exit status.
func renderParseFailure(cmdCtx *CommandContext, err error) error {
	se, ok := parser.AsSourceError(err)
	if !ok {
		return err
	}
	handled, serr := cmdCtx.Renderer.Structured(diagnosticReports(se))
	if serr != nil {
		return serr
	}
	if !handled {
		cmdCtx.Renderer.Diagnostic(se.Render())
	}
	return fmt.Errorf("%w: %s", ErrCheckFailed, se.Errors[0].Message)
}
