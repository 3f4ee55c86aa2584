// Package kb is the knowledge base: an incrementally maintained relational
// index of modules, imports, declarations, scopes, and name occurrences,
// re-derived differentially whenever a file's parse tree changes.
//
// The design generalizes the roaring-bitmap file index used elsewhere in
// this codebase for O(k) per-file invalidation: instead of indexing
// filesystem nodes, it indexes knowledge-base rows, so a single file's
// relations can be dropped and rebuilt without touching any other file's
// rows (§9's "derived relations, recomputed only for touched subtrees").
package kb

import "github.com/elm-pair/elm-pair/internal/syntax"

// ExposingMode mirrors syntax.ExposingMode for the module/import relations.
type ExposingMode = syntax.ExposingMode

const (
	ExposingExplicit = syntax.ExposingExplicit
	ExposingAll      = syntax.ExposingAll
)

// Module is one row of the modules relation: the single module declaration
// a file contains, plus the declarations it introduces.
type Module struct {
	Name    string
	File    syntax.FileID
	FilePath string

	Exposing     ExposingMode
	ExposedNames []string // sorted, minimal — see spec invariant on exposing lists
	// ExposingRange is the byte range of the module's own exposing_list
	// clause, zero-valued when the module has no exposing clause at all.
	ExposingRange ByteRange

	DeclaredValues      []string
	DeclaredTypes       []string
	DeclaredTypeAliases []string
}

// ByteRange is a half-open [Start:End) byte span within a single file,
// used to anchor a text replacement without re-querying the parse tree.
type ByteRange struct {
	Start, End uint32
}

// Import is one row of the imports relation.
type Import struct {
	ImportingModule string
	ImportedModule  string
	Alias           string // empty if none
	Exposing        ExposingMode
	ExposedNames    []string
	// ExposingRange is the byte range of this import's own exposing_list
	// clause, in ImportingModule's file.
	ExposingRange ByteRange
	AliasRange    ByteRange
}

// ScopeID identifies a nested lexical scope within a module.
type ScopeID int

// Scope is one row of the scopes relation: a nested binding context with a
// parent link (module-level scopes have no parent).
type Scope struct {
	ID       ScopeID
	Module   string
	Parent   *ScopeID
	Bindings map[string]Position // local name -> where it is bound
}

// OccurrenceKind distinguishes a definition site from a use site.
type OccurrenceKind int

const (
	OccurrenceDefinition OccurrenceKind = iota
	OccurrenceUse
)

// Position is a byte-range location within a file, used both for
// occurrences and for relating them back to source for refactor synthesis.
type Position struct {
	File       syntax.FileID
	StartByte  uint32
	EndByte    uint32
}

// ResolutionStatus reports how a name occurrence's identity was settled.
type ResolutionStatus int

const (
	ResolvedUnique ResolutionStatus = iota
	ResolvedAmbiguous
	ResolvedUnresolved
)

// Resolution is the outcome of resolving a name occurrence to its
// definition, honoring the shadowing order: local bindings, then
// same-module declarations, then imports.
type Resolution struct {
	Status ResolutionStatus
	// Module the name resolves to, when Status == ResolvedUnique.
	Module string
	// Candidates lists every module a name could resolve to, populated
	// when Status == ResolvedAmbiguous.
	Candidates []string
}

// Occurrence is one row of the occurrences relation: a name appearing in
// source, whether as its own definition or as a use of something else.
type Occurrence struct {
	Kind       OccurrenceKind
	Qualifier  string // empty when unqualified
	Identifier string
	Position   Position
	Resolution Resolution
}
