package refactor

import (
	"fmt"
	"sort"

	"github.com/elm-pair/elm-pair/internal/kb"
)

// renderExposingList formats a full replacement for an exposing_list node,
// including the leading "exposing " keyword, from a sorted set of names, or
// "exposing (..)" when exposing everything. The exposing_list node's own
// span starts at the "exposing" token, not the parenthesized body, so every
// recognizer that replaces target.ExposingRange needs the keyword in the
// rendered text or the rewrite drops it from the source entirely.
func renderExposingList(names []string, all bool) string {
	if all {
		return "exposing (..)"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := "exposing ("
	for i, n := range sorted {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + ")"
}

// insertSorted returns names with newName inserted in sorted position,
// unless newName is already present.
func insertSorted(names []string, newName string) []string {
	for _, n := range names {
		if n == newName {
			return names
		}
	}
	out := append(append([]string(nil), names...), newName)
	sort.Strings(out)
	return out
}

// removeName returns names with target removed, if present.
func removeName(names []string, target string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// allocateNumericSuffix returns the first name of the form base, base2,
// base3, ... for which taken returns false. renameCollidingLocal uses it to
// move a local declaration out of the way of a newly exposed import name.
func allocateNumericSuffix(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// renameCollidingLocal renames name's own definition in mod — and every
// use reachable from it, in this module and in any module that imports it
// — to the first available numeric-suffix variant. Used by R3 and R4 when
// a name about to be reachable unqualified through an import collides with
// an existing local declaration (the spec's "conflicting exposing
// introduction" scenario). Returns nil if mod declares no such name.
func renameCollidingLocal(mod *kb.Module, name string, store *kb.Store) []TextEdit {
	var defPos kb.Position
	found := false
	for _, occ := range store.Occurrences(mod.File) {
		if occ.Kind == kb.OccurrenceDefinition && occ.Identifier == name {
			defPos = occ.Position
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	visible := store.VisibleNames(mod.Name, nil)
	final := allocateNumericSuffix(name, func(candidate string) bool {
		return contains(visible, candidate)
	})

	edits := []TextEdit{{
		File:            defPos.File,
		StartByte:       defPos.StartByte,
		EndByte:         defPos.EndByte,
		ReplacementText: final,
	}}

	for _, occ := range store.FindUsages("", name) {
		if occ.Kind != kb.OccurrenceUse {
			continue
		}
		if fileMod, ok := store.Module(occ.Position.File); !ok || fileMod.Name != mod.Name {
			continue
		}
		edits = append(edits, renameOccurrence(occ, final, store))
	}

	for _, imp := range store.Importers(mod.Name) {
		qualifier := imp.Alias
		if qualifier == "" && imp.Exposing != kb.ExposingAll && !containsName(imp.ExposedNames, name) {
			continue
		}
		for _, occ := range store.FindUsages(qualifier, name) {
			if fileMod, ok := store.Module(occ.Position.File); occ.Kind != kb.OccurrenceUse || !ok || fileMod.Name != imp.ImportingModule {
				continue
			}
			edits = append(edits, renameOccurrence(occ, final, store))
		}
	}

	return edits
}

func contains(names []string, target string) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}
