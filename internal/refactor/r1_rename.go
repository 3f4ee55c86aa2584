package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r1Rename recognizes a plain identifier rename at its definition site and
// propagates it to every use, in this module and any module that imports
// it unqualified or through an alias. The new name is written unchanged at
// every site; a collision with a name already visible at a use site is not
// detected here and is left for the compilation gate to reject.
type r1Rename struct{}

func (r1Rename) Name() string { return "R1" }

func (r1Rename) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	if edit.OldNodeKind != "lower_case_identifier" || edit.NewNodeKind != "lower_case_identifier" {
		return false
	}
	mod, ok := store.Module(edit.File)
	if !ok {
		return false
	}
	for _, occ := range store.Occurrences(edit.File) {
		if occ.Kind == kb.OccurrenceDefinition &&
			occ.Identifier == string(edit.OldText) &&
			occ.Position.StartByte == edit.OldStartByte && occ.Position.EndByte == edit.OldEndByte {
			_ = mod
			return true
		}
	}
	return false
}

func (r1Rename) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, _ := store.Module(edit.File)
	oldName := string(edit.OldText)
	newName := string(edit.NewText)

	rf := &Refactor{
		Edits: []TextEdit{{
			File:            edit.File,
			StartByte:       edit.NewStartByte,
			EndByte:         edit.NewEndByte,
			ReplacementText: newName,
		}},
	}

	// Same-module unqualified uses.
	for _, occ := range store.FindUsages("", oldName) {
		if occ.Kind != kb.OccurrenceUse {
			continue
		}
		if fileMod, ok := store.Module(occ.Position.File); !ok || fileMod.Name != mod.Name {
			continue
		}
		rf.Edits = append(rf.Edits, renameOccurrence(occ, newName, store))
	}

	// Cross-module uses reached through an import, qualified or unqualified.
	for _, imp := range store.Importers(mod.Name) {
		qualifier := imp.Alias
		if qualifier == "" && imp.Exposing != kb.ExposingAll && !containsName(imp.ExposedNames, oldName) {
			continue
		}
		for _, occ := range store.FindUsages(qualifier, oldName) {
			if fileMod, ok := store.Module(occ.Position.File); occ.Kind != kb.OccurrenceUse || !ok || fileMod.Name != imp.ImportingModule {
				continue
			}
			rf.Edits = append(rf.Edits, renameOccurrence(occ, newName, store))
		}
	}

	return rf, nil
}

// renameOccurrence replaces an occurrence's identifier with newName. The
// suffix allocation it runs treats newName itself as free, so newName is
// always used as given; callers that need a collision-free name (such as
// renameCollidingLocal) pick it before calling.
func renameOccurrence(occ kb.Occurrence, newName string, store *kb.Store) TextEdit {
	mod, _ := store.Module(occ.Position.File)
	var moduleName string
	if mod != nil {
		moduleName = mod.Name
	}
	visible := store.VisibleNames(moduleName, nil)
	final := allocateNumericSuffix(newName, func(candidate string) bool {
		return contains(visible, candidate) && candidate != newName
	})

	start := occ.Position.StartByte
	end := occ.Position.EndByte
	if occ.Qualifier != "" {
		// Keep the qualifier; only the bare identifier after the dot changes.
		start = end - uint32(len(occ.Identifier))
	}

	return TextEdit{
		File:            occ.Position.File,
		StartByte:       start,
		EndByte:         end,
		ReplacementText: final,
	}
}

func containsName(names []string, target string) bool {
	return contains(names, target)
}
