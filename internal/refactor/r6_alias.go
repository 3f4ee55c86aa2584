package refactor

import (
	"strings"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r6ChangeAlias recognizes an edit to an import's `as` clause — adding,
// renaming, or removing it — and rewrites every qualified use in the
// importing module to match: old qualifier becomes new qualifier (the
// alias if one now exists, otherwise the full module name).
type r6ChangeAlias struct{}

func (r6ChangeAlias) Name() string { return "R6" }

func (r6ChangeAlias) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	if edit.OldNodeKind != "import_clause" || edit.NewNodeKind != "import_clause" {
		return false
	}
	oldMod, oldAlias := parseImportClauseText(string(edit.OldText))
	newMod, newAlias := parseImportClauseText(string(edit.NewText))
	return oldMod != "" && oldMod == newMod && oldAlias != newAlias
}

func (r6ChangeAlias) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, ok := store.Module(edit.File)
	if !ok {
		return nil, nil
	}

	moduleName, oldAlias := parseImportClauseText(string(edit.OldText))
	_, newAlias := parseImportClauseText(string(edit.NewText))

	oldQualifier := oldAlias
	if oldQualifier == "" {
		oldQualifier = moduleName
	}
	newQualifier := newAlias
	if newQualifier == "" {
		newQualifier = moduleName
	}
	if oldQualifier == newQualifier {
		return nil, nil
	}

	rf := &Refactor{}
	for _, occ := range occurrencesByQualifier(store, mod.Name, oldQualifier) {
		start := occ.Position.StartByte
		rf.Edits = append(rf.Edits, TextEdit{
			File:            occ.Position.File,
			StartByte:       start,
			EndByte:         occ.Position.EndByte - uint32(len(occ.Identifier)),
			ReplacementText: newQualifier + ".",
		})
	}
	return rf, nil
}

// occurrencesByQualifier scans every identifier FindUsages could plausibly
// know about for uses qualified by the given text, restricted to files
// belonging to moduleName. The knowledge base indexes by exact
// (qualifier, identifier) pair, so this walks the module's own occurrence
// rows directly rather than guessing every identifier in advance.
func occurrencesByQualifier(store *kb.Store, moduleName, qualifier string) []kb.Occurrence {
	m, ok := store.ModuleByName(moduleName)
	if !ok {
		return nil
	}
	var out []kb.Occurrence
	for _, occ := range store.Occurrences(m.File) {
		if occ.Kind == kb.OccurrenceUse && occ.Qualifier == qualifier {
			out = append(out, occ)
		}
	}
	return out
}

// parseImportClauseText extracts the module name and alias (if any) from
// the literal text of an import_clause node, e.g. "import Json.Decode as D
// exposing (string)" -> ("Json.Decode", "D").
func parseImportClauseText(text string) (moduleName, alias string) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "exposing"); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, " as "); idx >= 0 {
		moduleName = strings.TrimSpace(text[:idx])
		alias = strings.TrimSpace(text[idx+len(" as "):])
		return moduleName, alias
	}
	return text, ""
}
