package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r5RemoveExposing recognizes a name being removed from an import's
// exposing list and adds the qualifier back to every use of that name that
// was relying on it being exposed unqualified.
type r5RemoveExposing struct{}

func (r5RemoveExposing) Name() string { return "R5" }

func (r5RemoveExposing) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	if edit.NewNodeKind != "exposing_list" && edit.OldNodeKind != "exposing_list" {
		return false
	}
	mod, ok := store.Module(edit.File)
	if !ok {
		return false
	}
	if rangesOverlap(mod.ExposingRange.Start, mod.ExposingRange.End, edit.NewStartByte, edit.NewEndByte) {
		return false
	}
	_, found := importForExposingEdit(store, mod, edit)
	if !found {
		return false
	}
	removed := setDiff(parseExposingText(string(edit.NewText)), parseExposingText(string(edit.OldText)))
	return len(removed) > 0
}

func (r5RemoveExposing) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, _ := store.Module(edit.File)
	target, _ := importForExposingEdit(store, mod, edit)

	removed := setDiff(parseExposingText(string(edit.NewText)), parseExposingText(string(edit.OldText)))
	if len(removed) == 0 {
		return nil, nil
	}
	name := removed[0]

	qualifier := target.Alias
	if qualifier == "" {
		qualifier = target.ImportedModule
	}

	rf := &Refactor{}
	for _, occ := range store.FindUsages("", name) {
		if occ.Position.File != edit.File {
			continue
		}
		rf.Edits = append(rf.Edits, TextEdit{
			File:            occ.Position.File,
			StartByte:       occ.Position.StartByte,
			EndByte:         occ.Position.EndByte,
			ReplacementText: qualifier + "." + name,
		})
	}
	return rf, nil
}
