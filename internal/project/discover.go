// Package project discovers an Elm project root and watches it for changes
// that originate outside the editor (a teammate's commit landing via git
// pull, a formatter run from another tool).
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ElmJSON is the literal filename that marks a project root, per §6.3.
const ElmJSON = "elm.json"

// Discover walks upward from path until it finds a directory containing
// elm.json, returning that directory. path may be a file or a directory.
func Discover(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("project: resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project: stat %s: %w", abs, err)
	}
	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		candidate := filepath.Join(dir, ElmJSON)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("project: no %s found above %s", ElmJSON, abs)
		}
		dir = parent
	}
}

// Scan walks root and returns every .elm source file beneath it, skipping
// elm-stuff (the compiler's own build cache).
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "elm-stuff" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".elm" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("project: scan %s: %w", root, err)
	}
	return files, nil
}
