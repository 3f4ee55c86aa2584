package gate

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/refactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEditsAppliesBackToFrontByOffset(t *testing.T) {
	content := []byte("module Main exposing (foo)\n\nfoo = 1\n")
	edits := []refactor.TextEdit{
		{StartByte: 22, EndByte: 25, ReplacementText: "bar"},
		{StartByte: 28, EndByte: 31, ReplacementText: "bar"},
	}

	out, err := applyEdits(content, edits)
	require.NoError(t, err)
	assert.Equal(t, "module Main exposing (bar)\n\nbar = 1\n", string(out))
}

func TestApplyEditsRejectsInvalidRange(t *testing.T) {
	content := []byte("short")
	edits := []refactor.TextEdit{{StartByte: 0, EndByte: 100, ReplacementText: "x"}}

	_, err := applyEdits(content, edits)
	assert.Error(t, err)
}

func TestHasSyntaxErrorDetectsBrokenSource(t *testing.T) {
	assert.True(t, hasSyntaxError([]byte("module Main exposing (")))
}

func TestHasSyntaxErrorAcceptsWellFormedSource(t *testing.T) {
	assert.False(t, hasSyntaxError([]byte("module Main exposing (foo)\n\nfoo = 1\n")))
}

func TestParseElmReportCompileErrors(t *testing.T) {
	raw := []byte(`{
		"type": "compile-errors",
		"errors": [
			{
				"path": "src/Main.elm",
				"problems": [
					{"title": "NAMING ERROR", "region": {"start": {"line": 3, "column": 5}}}
				]
			}
		]
	}`)

	diags, err := parseElmReport(raw)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "src/Main.elm", diags[0].File)
	assert.Equal(t, 3, diags[0].Line)
	assert.Equal(t, "NAMING ERROR", diags[0].Message)
}

func TestParseElmReportProjectLevelError(t *testing.T) {
	raw := []byte(`{"type": "error", "path": "elm.json", "title": "BAD JSON"}`)

	diags, err := parseElmReport(raw)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "BAD JSON", diags[0].Message)
}
