package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r3RemoveQualifier recognizes an editor stripping a qualifier off a use
// (e.g. "Dict.member" -> "member"). It adds the name to the source
// import's exposing list so the now-bare reference still resolves. If the
// bare name collides with a local declaration, that declaration (and its
// uses) is renamed out of the way with a numeric suffix first. A collision
// with another import's exposed name is a genuine ambiguity the engine
// cannot safely resolve on its own, so no refactor is produced there — the
// compilation gate would reject it anyway.
type r3RemoveQualifier struct{}

func (r3RemoveQualifier) Name() string { return "R3" }

func (r3RemoveQualifier) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	return edit.OldNodeKind == "value_qid" && edit.NewNodeKind == "lower_case_identifier"
}

func (r3RemoveQualifier) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, ok := store.Module(edit.File)
	if !ok {
		return nil, nil
	}

	qualifier, name := splitQualifiedID(string(edit.OldText))
	if qualifier == "" {
		return nil, nil
	}

	target := findImport(store.Imports(mod.Name), qualifier)
	if target == nil {
		return nil, nil
	}
	if target.Exposing == kb.ExposingAll || contains(target.ExposedNames, name) {
		// Already reachable unqualified; nothing to add.
		return nil, nil
	}

	rf := &Refactor{}

	if declares(mod, name) {
		renameEdits := renameCollidingLocal(mod, name, store)
		if renameEdits == nil {
			return nil, nil
		}
		rf.Edits = append(rf.Edits, renameEdits...)
	} else {
		for _, imp := range store.Imports(mod.Name) {
			if imp.ImportedModule == target.ImportedModule {
				continue
			}
			if importExposesPublic(imp, name) {
				return nil, nil // collides with another import already exposing it
			}
		}
	}

	updated := insertSorted(target.ExposedNames, name)
	rf.Edits = append(rf.Edits, TextEdit{
		File:            edit.File,
		StartByte:       target.ExposingRange.Start,
		EndByte:         target.ExposingRange.End,
		ReplacementText: renderExposingList(updated, false),
	})
	return rf, nil
}

func declares(mod *kb.Module, name string) bool {
	for _, n := range mod.DeclaredValues {
		if n == name {
			return true
		}
	}
	for _, n := range mod.DeclaredTypes {
		if n == name {
			return true
		}
	}
	for _, n := range mod.DeclaredTypeAliases {
		if n == name {
			return true
		}
	}
	return false
}

func importExposesPublic(imp kb.Import, name string) bool {
	if imp.Exposing == kb.ExposingAll {
		return true
	}
	return contains(imp.ExposedNames, name)
}
