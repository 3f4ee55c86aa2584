package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r4AddExposing recognizes a name being added to an import's exposing
// list and drops the now-redundant qualifier from every use of that name
// reached through that import. If the newly exposed name collides with a
// local declaration, that declaration (and its uses) is renamed out of the
// way with a numeric suffix first, so the import's name resolves
// unambiguously. This (and R5) is the one pair of recognizers allowed to
// run on an edit whose tree still contains an ERROR node, since typing
// inside a parenthesized list briefly produces one on every keystroke.
type r4AddExposing struct{}

func (r4AddExposing) Name() string { return "R4" }

func (r4AddExposing) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	if edit.NewNodeKind != "exposing_list" {
		return false
	}
	mod, ok := store.Module(edit.File)
	if !ok {
		return false
	}
	if rangesOverlap(mod.ExposingRange.Start, mod.ExposingRange.End, edit.NewStartByte, edit.NewEndByte) {
		return false // module's own exposing clause — no qualifier concept applies
	}
	_, found := importForExposingEdit(store, mod, edit)
	if !found {
		return false
	}
	added := setDiff(parseExposingText(string(edit.OldText)), parseExposingText(string(edit.NewText)))
	return len(added) > 0
}

func (r4AddExposing) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, _ := store.Module(edit.File)
	target, _ := importForExposingEdit(store, mod, edit)

	added := setDiff(parseExposingText(string(edit.OldText)), parseExposingText(string(edit.NewText)))
	if len(added) == 0 {
		return nil, nil
	}
	name := added[0]

	qualifier := target.Alias
	if qualifier == "" {
		qualifier = target.ImportedModule
	}

	rf := &Refactor{}

	if declares(mod, name) {
		if renameEdits := renameCollidingLocal(mod, name, store); renameEdits != nil {
			rf.Edits = append(rf.Edits, renameEdits...)
		}
	}

	for _, occ := range store.FindUsages(qualifier, name) {
		if occ.Position.File != edit.File {
			continue
		}
		// occ.Position spans the whole qualified reference (e.g.
		// "String.toInt"), not just the bare identifier after the dot —
		// replace the full span, matching r5_remove_exposing.go's own
		// full-span replacement for the reverse direction.
		rf.Edits = append(rf.Edits, TextEdit{
			File:            occ.Position.File,
			StartByte:       occ.Position.StartByte,
			EndByte:         occ.Position.EndByte,
			ReplacementText: name,
		})
	}
	return rf, nil
}

func importForExposingEdit(store *kb.Store, mod *kb.Module, edit syntax.TreeEdit) (*kb.Import, bool) {
	for _, imp := range store.Imports(mod.Name) {
		imp := imp
		if rangesOverlap(imp.ExposingRange.Start, imp.ExposingRange.End, edit.NewStartByte, edit.NewEndByte) ||
			rangesOverlap(imp.ExposingRange.Start, imp.ExposingRange.End, edit.OldStartByte, edit.OldEndByte) {
			return &imp, true
		}
	}
	return nil, false
}
