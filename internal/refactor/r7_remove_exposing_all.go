package refactor

import (
	"strings"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r7RemoveExposingAll recognizes an import's entire exposing clause being
// deleted (`import Foo exposing (..)` -> `import Foo`) and requalifies
// every name that clause used to make available, the same way R5
// requalifies a single removed name — this is that same operation applied
// to every name the clause exposed.
type r7RemoveExposingAll struct{}

func (r7RemoveExposingAll) Name() string { return "R7" }

func (r7RemoveExposingAll) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	if edit.OldNodeKind != "import_clause" || edit.NewNodeKind != "import_clause" {
		return false
	}
	return strings.Contains(string(edit.OldText), "exposing") && !strings.Contains(string(edit.NewText), "exposing")
}

func (r7RemoveExposingAll) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	mod, ok := store.Module(edit.File)
	if !ok {
		return nil, nil
	}
	importedModuleName, _ := parseImportClauseText(string(edit.OldText))

	var priorNames []string
	oldExposedText := string(edit.OldText)
	if idx := strings.Index(oldExposedText, "exposing"); idx >= 0 {
		listText := oldExposedText[idx+len("exposing"):]
		if strings.Contains(listText, "..") {
			if target, ok := store.ModuleByName(importedModuleName); ok {
				priorNames = append(priorNames, target.DeclaredValues...)
				priorNames = append(priorNames, target.DeclaredTypes...)
			}
		} else {
			priorNames = parseExposingText(listText)
		}
	}

	qualifier := importedModuleName
	for _, imp := range store.Imports(mod.Name) {
		if imp.ImportedModule == importedModuleName && imp.Alias != "" {
			qualifier = imp.Alias
		}
	}

	rf := &Refactor{}
	for _, name := range priorNames {
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
	}
	if len(rf.Edits) == 0 {
		return nil, nil
	}
	return rf, nil
}
