package syntax_test

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleModule = `module Foo exposing (bar)

import Baz exposing (qux)

bar : Int
bar =
    1
`

func TestOpenParsesInitialTree(t *testing.T) {
	f, err := syntax.Open(1, "Foo.elm", []byte(sampleModule))
	require.NoError(t, err)
	assert.NotNil(t, f.File.Tree)
	assert.Equal(t, syntax.FileID(1), f.File.ID)
	assert.Equal(t, uint64(0), f.File.Revision)
}

func TestApplyEditBumpsRevisionAndReturnsTreeEdit(t *testing.T) {
	f, err := syntax.Open(1, "Foo.elm", []byte(sampleModule))
	require.NoError(t, err)

	// Replace "bar" in the exposing list with "baz".
	start := uint32(21)
	end := start + 3

	te, err := f.ApplyEdit(start, end, []byte("baz"))
	require.NoError(t, err)
	require.NotNil(t, te)
	assert.Equal(t, syntax.FileID(1), te.File)
	assert.Equal(t, uint64(1), f.File.Revision)
	assert.Contains(t, string(f.Buffer.Bytes()), "baz")
}

func TestExtractModuleHeader(t *testing.T) {
	f, err := syntax.Open(1, "Foo.elm", []byte(sampleModule))
	require.NoError(t, err)

	hdr, err := syntax.ExtractModuleHeader(f.File.Tree.RootNode(), f.Buffer.Bytes())
	require.NoError(t, err)
	require.NotNil(t, hdr)
	assert.Equal(t, "Foo", hdr.Name)
	assert.Equal(t, syntax.ExposingExplicit, hdr.Exposing)
	require.Len(t, hdr.ExposedNames, 1)
	assert.Equal(t, "bar", hdr.ExposedNames[0].Name)
}

func TestExtractImports(t *testing.T) {
	f, err := syntax.Open(1, "Foo.elm", []byte(sampleModule))
	require.NoError(t, err)

	imports, err := syntax.ExtractImports(f.File.Tree.RootNode(), f.Buffer.Bytes())
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "Baz", imports[0].ModuleName)
	assert.Equal(t, syntax.ExposingExplicit, imports[0].Exposing)
}

func TestExtractDeclarations(t *testing.T) {
	f, err := syntax.Open(1, "Foo.elm", []byte(sampleModule))
	require.NoError(t, err)

	decls, err := syntax.ExtractDeclarations(f.File.Tree.RootNode(), f.Buffer.Bytes())
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "bar", decls[0].Name)
	assert.Equal(t, syntax.DeclValue, decls[0].Kind)
}
