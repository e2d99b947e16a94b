package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/jacl/internal/cli/testutil"
)

func TestTokens_Table(t *testing.T) {
	file := testutil.WriteJACL(t, t.TempDir(), "a.jacl", "port = 80\n")

	out, _, err := execute(t, NewTokensCommand(), file)
	require.NoError(t, err)

	for _, want := range []string{"Name", `"port"`, "'='", "Integer", `"80"`, "Break"} {
		assert.Contains(t, out, want)
	}
}

func TestTokens_NoBreaksJSON(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, "output: json\n")
	file := testutil.WriteJACL(t, dir, "a.jacl", "a = \"hé\"\n")

	out, _, err := execute(t, NewTokensCommand(), file, "--no-breaks")
	require.NoError(t, err)

	var result TokensOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Tokens, 3)
	assert.Equal(t, TokenRow{Line: 1, Column: 5, Offset: 4, Length: 4, Type: "String", Literal: "hé"}, result.Tokens[2])
	assert.Empty(t, result.Errors)
}

func TestTokens_LexicalErrors(t *testing.T) {
	file := testutil.WriteJACL(t, t.TempDir(), "a.jacl", "m {% a = 1 %x\n")

	out, _, err := execute(t, NewTokensCommand(), file)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out, "[E103]")
}

func TestTree_Outline(t *testing.T) {
	file := testutil.WriteJACL(t, t.TempDir(), "a.jacl", sampleDoc)

	out, _, err := execute(t, NewTreeCommand(), file)
	require.NoError(t, err)

	for _, want := range []string{
		`name = "demo"`,
		"server: Object",
		"host = $host",
		`tags = ("a", @ext, 2)`,
		"backends: Table",
		"weight = 1.5",
		"replica: <declared>",
		"limits: Map",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTree_YAML(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, "output: yaml\n")
	file := testutil.WriteJACL(t, dir, "a.jacl", sampleDoc)

	out, _, err := execute(t, NewTreeCommand(), file)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Object", decoded["kind"])
	entries, ok := decoded["entries"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, entries, "backends")
}

func TestTree_Stats(t *testing.T) {
	file := testutil.WriteJACL(t, t.TempDir(), "a.jacl", sampleDoc)

	out, _, err := execute(t, NewTreeCommand(), file, "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Objects")
	assert.Contains(t, out, "Declared Entries")
	assert.Contains(t, out, "Max Depth")
}

func TestTree_ParseError(t *testing.T) {
	file := testutil.WriteJACL(t, t.TempDir(), "a.jacl", "a = {\n")

	out, _, err := execute(t, NewTreeCommand(), file)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out, "[E")
}

func TestGet(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteJACL(t, dir, "a.jacl", sampleDoc)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "property", args: []string{file, "port"}, want: "8080\n"},
		{name: "nested property", args: []string{file, "backends.primary.weight"}, want: "1.5\n"},
		{name: "tuple", args: []string{file, "server.tags"}, want: "(\"a\", @ext, 2)\n"},
		{name: "unresolved var", args: []string{file, "server.host"}, want: "$host\n"},
		{name: "structure", args: []string{file, "limits"}, want: "cpu = 2"},
		{name: "missing", args: []string{file, "server.nope"}, wantErr: "not found"},
		{name: "declared", args: []string{file, "backends.replica.x"}, wantErr: "declared but not defined"},
		{name: "unbound on resolve", args: []string{file, "server.host", "--resolve"}, wantErr: "unbound variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewGetCommand(), tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestGet_ResolveFromConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.LoadConfig(t, dir, "output: json\nvars:\n  host: db.internal\n")
	file := testutil.WriteJACL(t, dir, "a.jacl", sampleDoc)

	out, _, err := execute(t, NewGetCommand(), file, "server.host", "--resolve")
	require.NoError(t, err)

	var got GetOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, GetOutput{Path: "server.host", Kind: "Str", Value: `"db.internal"`}, got)
}
