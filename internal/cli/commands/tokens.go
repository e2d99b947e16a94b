package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/jacl/pkg/parser"
	"github.com/leapstack-labs/jacl/pkg/token"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	NoBreaks bool
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a JACL file",
		Example: `  # Show tokens as a table
  jacl tokens app.jacl

  # Hide line breaks and emit JSON
  jacl tokens app.jacl --no-breaks -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoBreaks, "no-breaks", false, "Omit Break tokens")

	return cmd
}

// TokenRow is the structured form of a token.
type TokenRow struct {
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Offset  int    `json:"offset" yaml:"offset"`
	Length  int    `json:"length" yaml:"length"`
	Type    string `json:"type" yaml:"type"`
	Literal string `json:"literal" yaml:"literal"`
}

// TokensOutput is the structured output of the tokens command.
type TokensOutput struct {
	File   string             `json:"file" yaml:"file"`
	Tokens []TokenRow         `json:"tokens" yaml:"tokens"`
	Errors []DiagnosticReport `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func runTokens(cmd *cobra.Command, file string, opts *TokensOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	src, err := os.ReadFile(file) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	lines, toks, lexErrs := parser.Lex(string(src))
	cmdCtx.Logger.Debug("lexed file", "file", file, "tokens", len(toks), "errors", len(lexErrs))

	result := TokensOutput{File: file, Tokens: make([]TokenRow, 0, len(toks))}
	for _, tok := range toks {
		if opts.NoBreaks && tok.Type == token.BREAK {
			continue
		}
		result.Tokens = append(result.Tokens, TokenRow{
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
			Offset:  tok.Pos.Offset,
			Length:  tok.Len,
			Type:    tok.Type.String(),
			Literal: tok.Literal,
		})
	}
	for _, e := range lexErrs {
		d := DiagnosticReport{Code: e.Code, Message: e.Message, Hint: e.Hint, Rendered: e.Render(string(src), lines)}
		if e.Token != nil {
			d.Line, d.Column = e.Token.Pos.Line, e.Token.Pos.Column
		}
		result.Errors = append(result.Errors, d)
	}

	handled, err := r.Structured(result)
	if !handled {
		renderTokenTable(cmdCtx, result)
	}
	if err != nil {
		return err
	}
	if len(lexErrs) > 0 {
		return fmt.Errorf("%w: %d lexical errors in %s", ErrCheckFailed, len(lexErrs), file)
	}
	return nil
}

func renderTokenTable(cmdCtx *CommandContext, result TokensOutput) {
	r := cmdCtx.Renderer

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Line", "Col", "Len", "Type", "Literal"})
	for _, row := range result.Tokens {
		t.AppendRow(table.Row{row.Line, row.Column, row.Length, row.Type, strconv.Quote(row.Literal)})
	}
	t.Render()

	for _, d := range result.Errors {
		r.Diagnostic(d.Rendered)
	}
}
