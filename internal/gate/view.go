package gate

import (
	"io"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// materialize stages edited (an overlay of the repository's changed files,
// keyed by absolute path) into an in-memory filesystem, then copies the
// union of that overlay and the project's real tree into a fresh scratch
// directory, because the external elm binary needs real files on disk, not
// a virtual view. Returns the scratch directory; the caller removes it.
func materialize(projectRoot string, edited map[string][]byte) (string, error) {
	overlay := memfs.New()
	for path, content := range edited {
		rel, err := filepath.Rel(projectRoot, path)
		if err != nil {
			continue
		}
		if err := writeFile(overlay, rel, content); err != nil {
			return "", err
		}
	}

	stageDir, err := os.MkdirTemp("", "elm-pair-gate-*")
	if err != nil {
		return "", err
	}

	src := osfs.New(projectRoot)
	dst := osfs.New(stageDir)

	if err := copyTree(src, dst, "."); err != nil {
		os.RemoveAll(stageDir)
		return "", err
	}
	if err := copyOverlay(overlay, dst, "."); err != nil {
		os.RemoveAll(stageDir)
		return "", err
	}

	return stageDir, nil
}

func writeFile(fs billy.Filesystem, path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(content)
	return err
}

// copyTree copies every regular file under src at path into dst, skipping
// elm-stuff (the compiler's own build cache — copying it would be wasted
// work and risks stale artifacts poisoning the staged compile).
func copyTree(src, dst billy.Filesystem, path string) error {
	entries, err := src.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		childPath := src.Join(path, entry.Name())
		if entry.IsDir() {
			if entry.Name() == "elm-stuff" {
				continue
			}
			if err := dst.MkdirAll(childPath, 0o755); err != nil {
				return err
			}
			if err := copyTree(src, dst, childPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(src, dst, childPath); err != nil {
			return err
		}
	}
	return nil
}

// copyOverlay writes every file the virtual view holds on top of the
// materialized tree, so staged edits take priority over the real files
// copyTree already placed at the same path.
func copyOverlay(overlay, dst billy.Filesystem, path string) error {
	entries, err := overlay.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		childPath := overlay.Join(path, entry.Name())
		if entry.IsDir() {
			if err := dst.MkdirAll(childPath, 0o755); err != nil {
				return err
			}
			if err := copyOverlay(overlay, dst, childPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(overlay, dst, childPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst billy.Filesystem, path string) error {
	in, err := src.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	if dir := filepath.Dir(path); dir != "." {
		if err := dst.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := dst.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
