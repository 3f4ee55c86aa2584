package main

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// runtimeDir returns the directory elm-pair keeps its sockets and status
// files in, creating it if necessary.
func runtimeDir() (string, error) {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "elm-pair")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// projectHash derives a short, stable identifier for a project root, the
// same short-hash-suffix idiom the teacher's generateMountName uses to keep
// concurrently running instances from colliding on one socket path.
func projectHash(projectRoot string) string {
	sum := sha256.Sum256([]byte(projectRoot))
	return hex.EncodeToString(sum[:6])
}

func socketPathFor(projectRoot string) (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, projectHash(projectRoot)+".sock"), nil
}

func statusPathFor(projectRoot string) (string, error) {
	dir, err := runtimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, projectHash(projectRoot)+".status"), nil
}

// elmPairDirFor returns the project-local `.elm-pair` directory used for
// the SQLite index snapshot and the config dotfile, creating it if needed.
func elmPairDirFor(projectRoot string) (string, error) {
	dir := filepath.Join(projectRoot, ".elm-pair")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
