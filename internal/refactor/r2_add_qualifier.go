package refactor

import (
	"strings"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r2AddQualifier recognizes an editor manually qualifying a previously bare
// name use (e.g. typing "Dict." in front of "member"). Every other
// remaining unqualified use of that name in the module is requalified to
// match, and the name is dropped from that import's exposing list — it is
// no longer needed there.
type r2AddQualifier struct{}

func (r2AddQualifier) Name() string { return "R2" }

func (r2AddQualifier) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	return edit.OldNodeKind == "lower_case_identifier" && edit.NewNodeKind == "value_qid"
}

func (r2AddQualifier) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, ok := store.Module(edit.File)
	if !ok {
		return nil, nil
	}

	qualifier, name := splitQualifiedID(string(edit.NewText))
	if qualifier == "" {
		return nil, nil
	}

	target := findImport(store.Imports(mod.Name), qualifier)
	if target == nil || target.Exposing == kb.ExposingAll || !contains(target.ExposedNames, name) {
		return nil, nil
	}

	rf := &Refactor{}

	// Requalify every other unqualified use of the name so the
	// exposing-list entry can be dropped without leaving them unresolved.
	for _, occ := range store.Occurrences(edit.File) {
		if occ.Kind != kb.OccurrenceUse || occ.Qualifier != "" || occ.Identifier != name {
			continue
		}
		if occ.Position.StartByte == edit.OldStartByte && occ.Position.EndByte == edit.OldEndByte {
			continue // the use the editor just qualified by hand
		}
		rf.Edits = append(rf.Edits, TextEdit{
			File:            occ.Position.File,
			StartByte:       occ.Position.StartByte,
			EndByte:         occ.Position.EndByte,
			ReplacementText: qualifier + "." + name,
		})
	}

	remaining := removeName(target.ExposedNames, name)
	rf.Edits = append(rf.Edits, TextEdit{
		File:            edit.File,
		StartByte:       target.ExposingRange.Start,
		EndByte:         target.ExposingRange.End,
		ReplacementText: renderExposingList(remaining, false),
	})
	return rf, nil
}

func splitQualifiedID(text string) (qualifier, name string) {
	idx := strings.LastIndex(text, ".")
	if idx < 0 {
		return "", text
	}
	return text[:idx], text[idx+1:]
}

func findImport(imports []kb.Import, qualifier string) *kb.Import {
	for _, imp := range imports {
		imp := imp
		if imp.Alias == qualifier || (imp.Alias == "" && imp.ImportedModule == qualifier) {
			return &imp
		}
	}
	return nil
}
