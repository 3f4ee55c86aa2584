package daemonstatus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elm-pair/elm-pair/internal/daemonstatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.status")

	st, err := daemonstatus.Open(path, "/tmp/elm-pair/abc.sock", "/home/user/project")
	require.NoError(t, err)
	st.BumpGeneration()
	st.BumpGeneration()
	require.NoError(t, st.Close())

	pid, socketPath, projectRoot, gen, err := daemonstatus.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elm-pair/abc.sock", socketPath)
	assert.Equal(t, "/home/user/project", projectRoot)
	assert.Equal(t, uint64(2), gen)
	assert.NotZero(t, pid)
}

func TestIsProcessRunningForCurrentProcess(t *testing.T) {
	assert.True(t, daemonstatus.IsProcessRunning(os.Getpid()))
}

func TestReadRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.status")
	require.NoError(t, os.WriteFile(path, []byte("not a status block"), 0o644))

	_, _, _, _, err := daemonstatus.Read(path)
	assert.Error(t, err)
}
