package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jacl/pkg/jacl"
)

func newTestSession(t *testing.T, vars map[string]any) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	doc, err := jacl.Parse(sampleDoc)
	require.NoError(t, err)
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	return newREPLSession("sample.jacl", doc, vars, out, errOut), out, errOut
}

func TestREPL_Eval(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOut string
		wantErr string
		quit    bool
	}{
		{name: "blank", line: "   "},
		{name: "value", line: "server.tags", wantOut: "(\"a\", @ext, 2)\n"},
		{name: "structure", line: "backends", wantOut: "Table\n"},
		{name: "resolved", line: "!server.host", wantOut: "\"db\"\n"},
		{name: "unresolved", line: "server.host", wantOut: "$host\n"},
		{name: "missing", line: "nope", wantErr: "nope: not found"},
		{name: "paths", line: ".paths server.", wantOut: "server.host\nserver.tags\n"},
		{name: "help", line: ".help", wantOut: ".paths [prefix]"},
		{name: "unknown", line: ".frob", wantErr: "Unknown command: .frob"},
		{name: "quit", line: ".quit", quit: true},
		{name: "exit", line: ".EXIT", quit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errOut := newTestSession(t, map[string]any{"host": "db"})

			assert.Equal(t, tt.quit, s.eval(tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestREPL_Paths(t *testing.T) {
	s, _, _ := newTestSession(t, nil)

	assert.Equal(t, []string{
		"name", "port",
		"server", "server.host", "server.tags",
		"backends", "backends.primary", "backends.primary.weight", "backends.replica",
		"limits", "limits.cpu", "limits.mem",
	}, s.paths)
	assert.NotNil(t, s.completer())
}
