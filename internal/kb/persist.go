package kb

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Snapshot is a SQLite-backed persistence sidecar for a Store. It records
// each scanned file's mtime and can report which files changed since they
// were recorded (StaleFiles); the daemon does not consult it at startup, so
// every start still parses every file. This mirrors the refs-sidecar
// pattern used elsewhere in this codebase (temp-file SQLite DB, WAL mode)
// but persists to a named per-project file instead of a throwaway temp
// file, since its whole point is to survive process restarts.
type Snapshot struct {
	db   *sql.DB
	path string
}

// OpenSnapshot opens (creating if necessary) the snapshot database at path.
func OpenSnapshot(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kb: open snapshot %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kb: set WAL mode: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS files (
			file_id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			mod_unix_nano INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS modules (
			file_id INTEGER PRIMARY KEY REFERENCES files(file_id),
			name TEXT NOT NULL,
			exposing_all INTEGER NOT NULL,
			exposed_names TEXT NOT NULL,
			declared_values TEXT NOT NULL,
			declared_types TEXT NOT NULL,
			declared_type_aliases TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			importing_module TEXT NOT NULL,
			imported_module TEXT NOT NULL,
			alias TEXT NOT NULL,
			exposing_all INTEGER NOT NULL,
			exposed_names TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("kb: create schema: %w", err)
		}
	}

	return &Snapshot{db: db, path: path}, nil
}

// StaleFiles reports which of the given path->modTime pairs disagree with
// what the snapshot last recorded — either new, changed, or never seen.
// Any such file would need a full reparse; the rest match what was last
// recorded. Only tests call it today; no daemon code path reads it.
func (sn *Snapshot) StaleFiles(current map[string]int64) (map[string]bool, error) {
	rows, err := sn.db.Query(`SELECT path, mod_unix_nano FROM files`)
	if err != nil {
		return nil, fmt.Errorf("kb: query files: %w", err)
	}
	defer rows.Close()

	known := make(map[string]int64)
	for rows.Next() {
		var path string
		var modNano int64
		if err := rows.Scan(&path, &modNano); err != nil {
			return nil, fmt.Errorf("kb: scan file row: %w", err)
		}
		known[path] = modNano
	}

	stale := make(map[string]bool)
	for path, mod := range current {
		if prior, ok := known[path]; !ok || prior != mod {
			stale[path] = true
		}
	}
	return stale, nil
}

// RecordFile persists one file's mtime into the snapshot, called once that
// file's knowledge-base rows have been successfully rebuilt.
func (sn *Snapshot) RecordFile(path string, modUnixNano int64) error {
	_, err := sn.db.Exec(
		`INSERT INTO files(file_id, path, mod_unix_nano) VALUES ((SELECT IFNULL(MAX(file_id),0)+1 FROM files), ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mod_unix_nano=excluded.mod_unix_nano`,
		path, modUnixNano)
	if err != nil {
		return fmt.Errorf("kb: record file %s: %w", path, err)
	}
	return nil
}

// Close closes the underlying database handle. The snapshot file itself is
// left on disk for the next daemon start.
func (sn *Snapshot) Close() error {
	return sn.db.Close()
}

// RemoveSnapshot deletes a snapshot file and its WAL/SHM siblings, used by
// `elm-pair clean` to force a full rescan on next start.
func RemoveSnapshot(path string) error {
	_ = os.Remove(path)
	_ = os.Remove(path + "-wal")
	_ = os.Remove(path + "-shm")
	return nil
}
