package kb

import (
	"context"
	"fmt"
	"os"

	"github.com/elm-pair/elm-pair/internal/project"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// BuildStore parses every .elm file under root and returns a freshly
// populated Store — the full-project-rescan operation triggered by a
// startup or an elm.json change, meant to be installed via HotSwap.Swap
// once built rather than mutated in place.
func BuildStore(root string) (*Store, error) {
	return BuildStoreWithSnapshot(root, nil)
}

// BuildStoreWithSnapshot is BuildStore, additionally recording each file's
// mtime into snapshot (if non-nil) as it is absorbed. The knowledge base
// itself always holds derived relations (modules, imports, scopes,
// occurrences) in memory only, per §9's "no global state outside a
// session/store object" rule, so every rescan still reparses every file;
// the snapshot's role today is the mtime ledger StaleFiles reads. No
// daemon code path consults that ledger before a rescan.
func BuildStoreWithSnapshot(root string, snapshot *Snapshot) (*Store, error) {
	files, err := project.Scan(root)
	if err != nil {
		return nil, err
	}

	mtimes := make(map[string]int64, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("kb: stat %s: %w", path, err)
		}
		mtimes[path] = info.ModTime().UnixNano()
	}

	store := New()
	parser := syntax.NewParser()
	for i, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("kb: read %s: %w", path, err)
		}
		tree, err := parser.ParseCtx(context.Background(), nil, content)
		if err != nil {
			return nil, fmt.Errorf("kb: parse %s: %w", path, err)
		}
		fileID := syntax.FileID(i + 1)
		if err := store.UpdateFile(fileID, path, tree.RootNode(), content); err != nil {
			return nil, fmt.Errorf("kb: update %s: %w", path, err)
		}
		if snapshot != nil {
			if err := snapshot.RecordFile(path, mtimes[path]); err != nil {
				return nil, fmt.Errorf("kb: record snapshot for %s: %w", path, err)
			}
		}
	}
	return store, nil
}
