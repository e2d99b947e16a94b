package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
// Styling is disabled when isTTY is false.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(lr),
	}
}

// DisableColor switches styling off regardless of the terminal.
func (r *Renderer) DisableColor() {
	lr := lipgloss.NewRenderer(r.out)
	lr.SetColorProfile(termenv.Ascii)
	r.styles = newStyles(lr)
	r.isTTY = false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// EffectiveMode resolves ModeAuto to the concrete mode in use.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode == ModeAuto || r.mode == "" {
		return ModeText
	}
	return r.mode
}

// IsTTY reports whether output is styled for a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the styles for this renderer.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to standard output.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a level 1 or 2 heading.
func (r *Renderer) Header(level int, text string) {
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warn writes a warning to the error output.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error writes an error message to the error output.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine writes `name` prefixed by a status marker and followed by detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	switch status {
	case "success":
		marker = r.styles.Success.Render("✓")
	case "error":
		marker = r.styles.Error.Render("✗")
	default:
		marker = r.styles.Muted.Render("•")
	}
	line := marker + " " + name
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// Diagnostic writes a rendered diagnostic, styling its code and caret lines.
func (r *Renderer) Diagnostic(rendered string) {
	for _, line := range strings.SplitAfter(rendered, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "[E"):
			if end := strings.Index(body, "]"); end > 0 {
				body = r.styles.Code.Render(body[:end+1]) + body[end+1:]
			}
		case strings.TrimLeft(body, " ") != "" && strings.Trim(body, " ^") == "":
			indent := len(body) - len(strings.TrimLeft(body, " "))
			body = body[:indent] + r.styles.Caret.Render(body[indent:])
		case strings.HasPrefix(body, "Hint: "):
			body = r.styles.Info.Render(body)
		}
		r.Println(body)
	}
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Structured writes v in the JSON or YAML mode in effect.
// It reports false in text mode so the caller can print text instead.
func (r *Renderer) Structured(v any) (bool, error) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	default:
		return false, nil
	}
}

// FormatHeader returns a plain text heading.
func FormatHeader(level int, text string) string {
	if level <= 1 {
		return text + "\n" + strings.Repeat("=", len([]rune(text)))
	}
	return text + "\n" + strings.Repeat("-", len([]rune(text)))
}

// FormatKeyValue returns a `key: value` line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", key, value)
}
