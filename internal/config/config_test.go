package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "elm", cfg.ElmBinary("elm"))
	assert.Equal(t, 5*time.Second, cfg.GateTimeout(5*time.Second))
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elmBinary": "/opt/elm/bin/elm", "gateTimeoutSeconds": 2.5}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/elm/bin/elm", cfg.ElmBinary("elm"))
	assert.Equal(t, 2500*time.Millisecond, cfg.GateTimeout(5*time.Second))
}

func TestLoadIgnoresWrongTypedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elmBinary": 7, "gateTimeoutSeconds": "soon"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "elm", cfg.ElmBinary("elm"))
	assert.Equal(t, 5*time.Second, cfg.GateTimeout(5*time.Second))
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
