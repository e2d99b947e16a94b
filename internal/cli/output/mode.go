// Package output renders command results for terminals and for machines.
//
// A Renderer writes styled text when attached to a terminal and plain text
// otherwise. JSON and YAML modes emit structured documents for scripting.
package output

import "strings"

// OutputMode selects how results are written.
//
//nolint:revive // output.OutputMode mirrors the config key
type OutputMode string

// Output modes.
const (
	ModeAuto OutputMode = "auto" // text; styled only on a terminal
	ModeText OutputMode = "text"
	ModeJSON OutputMode = "json"
	ModeYAML OutputMode = "yaml"
)

// Mode parses a mode name. Unknown names fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeJSON:
		return ModeJSON
	case ModeYAML:
		return ModeYAML
	default:
		return ModeAuto
	}
}

// ValidModes lists the accepted mode names for flag completion.
func ValidModes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeJSON), string(ModeYAML)}
}
