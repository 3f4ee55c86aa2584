package kb

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// Store holds every relation the knowledge base maintains. Reads and writes
// are guarded by an RWMutex; every editor session goroutine and the
// daemon's file-watch loop write to it through UpdateFile.
type Store struct {
	mu sync.RWMutex

	modulesByFile map[syntax.FileID]*Module
	modulesByName map[string]*Module

	importsByModule map[string][]Import
	scopesByModule   map[string][]*Scope
	occurrencesByFile map[syntax.FileID][]Occurrence

	// identToFiles indexes occurrence identifiers to the set of files that
	// mention them, using a roaring bitmap the same way the teacher graph
	// indexes nodes by source file — this keeps find_usages from scanning
	// every file's occurrence list when only a handful reference a name.
	identToFiles map[string]*roaring.Bitmap
	fileIntID    map[syntax.FileID]uint32
	intToFileID  []syntax.FileID
	nextIntID    uint32
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		modulesByFile:     make(map[syntax.FileID]*Module),
		modulesByName:     make(map[string]*Module),
		importsByModule:   make(map[string][]Import),
		scopesByModule:    make(map[string][]*Scope),
		occurrencesByFile: make(map[syntax.FileID][]Occurrence),
		identToFiles:      make(map[string]*roaring.Bitmap),
		fileIntID:         make(map[syntax.FileID]uint32),
	}
}

func (s *Store) fileBit(id syntax.FileID) uint32 {
	if n, ok := s.fileIntID[id]; ok {
		return n
	}
	n := s.nextIntID
	s.nextIntID++
	s.fileIntID[id] = n
	for uint32(len(s.intToFileID)) <= n {
		s.intToFileID = append(s.intToFileID, 0)
	}
	s.intToFileID[n] = id
	return n
}

// DeleteFile drops every row this file contributed — modules, imports,
// scopes, occurrences — so UpdateFile can rebuild them from scratch, which
// §9 explicitly allows ("from scratch is acceptable if correctness holds").
func (s *Store) DeleteFile(id syntax.FileID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteFileLocked(id)
}

func (s *Store) deleteFileLocked(id syntax.FileID) {
	mod, ok := s.modulesByFile[id]
	if ok {
		delete(s.modulesByName, mod.Name)
		delete(s.importsByModule, mod.Name)
		delete(s.scopesByModule, mod.Name)
	}
	delete(s.modulesByFile, id)

	for _, occ := range s.occurrencesByFile[id] {
		key := occurrenceKey(occ.Qualifier, occ.Identifier)
		if bm, ok := s.identToFiles[key]; ok {
			if bit, ok := s.fileIntID[id]; ok {
				bm.Remove(bit)
			}
			if bm.IsEmpty() {
				delete(s.identToFiles, key)
			}
		}
	}
	delete(s.occurrencesByFile, id)
}

// PutFile replaces all rows for a file with freshly extracted ones. It is
// the single write path UpdateFile (update.go) calls after re-extracting a
// file's module/import/declaration/occurrence data post-edit.
func (s *Store) PutFile(mod *Module, imports []Import, scopes []*Scope, occs []Occurrence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteFileLocked(mod.File)

	mod.ExposedNames = sortedCopy(mod.ExposedNames)
	s.modulesByFile[mod.File] = mod
	s.modulesByName[mod.Name] = mod
	s.importsByModule[mod.Name] = imports
	s.scopesByModule[mod.Name] = scopes
	s.occurrencesByFile[mod.File] = occs

	bit := s.fileBit(mod.File)
	for _, occ := range occs {
		key := occurrenceKey(occ.Qualifier, occ.Identifier)
		bm, ok := s.identToFiles[key]
		if !ok {
			bm = roaring.New()
			s.identToFiles[key] = bm
		}
		bm.Add(bit)
	}
}

// Module returns the module declared in the given file, if known.
func (s *Store) Module(file syntax.FileID) (*Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modulesByFile[file]
	return m, ok
}

// ModuleByName looks up a module by its declared name.
func (s *Store) ModuleByName(name string) (*Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modulesByName[name]
	return m, ok
}

// Imports returns the import rows for a module.
func (s *Store) Imports(moduleName string) []Import {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Import(nil), s.importsByModule[moduleName]...)
}

// Importers returns every import row, across every module, that imports
// moduleName — used by cross-module rename/requalify recognizers to find
// every qualifier a name might be reached through.
func (s *Store) Importers(moduleName string) []Import {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Import
	for _, imps := range s.importsByModule {
		for _, imp := range imps {
			if imp.ImportedModule == moduleName {
				out = append(out, imp)
			}
		}
	}
	return out
}

// Occurrences returns every occurrence row recorded for a file.
func (s *Store) Occurrences(file syntax.FileID) []Occurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Occurrence(nil), s.occurrencesByFile[file]...)
}

// FindUsages returns every occurrence of identifier (optionally qualified)
// across every file currently indexed, using the roaring-bitmap index to
// visit only files that actually mention the identifier.
func (s *Store) FindUsages(qualifier, identifier string) []Occurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := occurrenceKey(qualifier, identifier)
	bm, ok := s.identToFiles[key]
	if !ok {
		return nil
	}

	var out []Occurrence
	it := bm.Iterator()
	for it.HasNext() {
		bit := it.Next()
		if int(bit) >= len(s.intToFileID) {
			continue
		}
		fileID := s.intToFileID[bit]
		for _, occ := range s.occurrencesByFile[fileID] {
			if occ.Qualifier == qualifier && occ.Identifier == identifier {
				out = append(out, occ)
			}
		}
	}
	return out
}

// FileIDForPath returns the FileID already associated with path, or a fresh
// one one higher than any FileID currently known, for a file the store has
// never seen before (e.g. one created outside the editor, picked up by the
// project watcher rather than a wire protocol new-file message).
func (s *Store) FileIDForPath(path string) syntax.FileID {
	s.mu.RLock()
	var maxID syntax.FileID
	for id, mod := range s.modulesByFile {
		if mod.FilePath == path {
			s.mu.RUnlock()
			return id
		}
		if id > maxID {
			maxID = id
		}
	}
	s.mu.RUnlock()
	return maxID + 1
}

func occurrenceKey(qualifier, identifier string) string {
	if qualifier == "" {
		return identifier
	}
	return qualifier + "." + identifier
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
