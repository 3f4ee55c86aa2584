package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elm-pair/elm-pair/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFindsElmJSONUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "elm.json"), []byte("{}"), 0o644))

	srcDir := filepath.Join(root, "src", "Nested")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	file := filepath.Join(srcDir, "Main.elm")
	require.NoError(t, os.WriteFile(file, []byte("module Main exposing (x)\n"), 0o644))

	found, err := project.Discover(file)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestDiscoverErrorsWhenNoElmJSON(t *testing.T) {
	root := t.TempDir()
	_, err := project.Discover(root)
	assert.Error(t, err)
}

func TestScanSkipsElmStuff(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "elm-stuff", "generated"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "elm-stuff", "generated", "Skip.elm"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.elm"), []byte(""), 0o644))

	files, err := project.Scan(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(root, "Main.elm"), files[0])
}
