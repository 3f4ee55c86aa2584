package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSnapshotCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	sn, err := OpenSnapshot(path)
	require.NoError(t, err)
	defer sn.Close()

	stale, err := sn.StaleFiles(map[string]int64{"src/Main.elm": 100})
	require.NoError(t, err)
	assert.True(t, stale["src/Main.elm"])
}

func TestStaleFilesDetectsChangedAndUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	sn, err := OpenSnapshot(path)
	require.NoError(t, err)
	defer sn.Close()

	require.NoError(t, sn.RecordFile("src/Main.elm", 100))
	require.NoError(t, sn.RecordFile("src/Helpers.elm", 200))

	stale, err := sn.StaleFiles(map[string]int64{
		"src/Main.elm":    100, // unchanged
		"src/Helpers.elm": 250, // changed
		"src/New.elm":     1,   // never seen
	})
	require.NoError(t, err)
	assert.False(t, stale["src/Main.elm"])
	assert.True(t, stale["src/Helpers.elm"])
	assert.True(t, stale["src/New.elm"])
}

func TestRecordFileUpdatesExistingRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	sn, err := OpenSnapshot(path)
	require.NoError(t, err)
	defer sn.Close()

	require.NoError(t, sn.RecordFile("src/Main.elm", 100))
	require.NoError(t, sn.RecordFile("src/Main.elm", 200))

	stale, err := sn.StaleFiles(map[string]int64{"src/Main.elm": 200})
	require.NoError(t, err)
	assert.False(t, stale["src/Main.elm"])
}

func TestRemoveSnapshotDeletesSidecarFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")
	sn, err := OpenSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, sn.Close())

	assert.NoError(t, RemoveSnapshot(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
