package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scanFixtureMain = `module Main exposing (main)

main = 1
`

func TestBuildStoreIndexesEveryElmFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.elm"), []byte(scanFixtureMain), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "elm-stuff"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "elm-stuff", "Generated.elm"), []byte(scanFixtureMain), 0o644))

	store, err := BuildStore(root)
	require.NoError(t, err)

	mod, ok := store.ModuleByName("Main")
	assert.True(t, ok)
	assert.Equal(t, []string{"main"}, mod.DeclaredValues)
}

func TestBuildStoreWithSnapshotRecordsMtimes(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.elm"), []byte(scanFixtureMain), 0o644))

	snapshot, err := OpenSnapshot(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer snapshot.Close()

	_, err = BuildStoreWithSnapshot(root, snapshot)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "Main.elm"))
	require.NoError(t, err)
	stale, err := snapshot.StaleFiles(map[string]int64{filepath.Join(root, "Main.elm"): info.ModTime().UnixNano()})
	require.NoError(t, err)
	assert.False(t, stale[filepath.Join(root, "Main.elm")])
}
