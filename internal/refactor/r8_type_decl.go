package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// r8TypeDecl recognizes a type or type-alias declaration being added or
// removed wholesale. Per design, this never produces a cross-module text
// edit — it only records that the structural shape of the module changed,
// which the knowledge base has already absorbed by the time this
// recognizer runs (UpdateFile ran before dispatch). It still returns a
// non-nil, zero-edit Refactor: there is a recognized event, just nothing
// to splice anywhere, matching the "no text edit but a structural event"
// scenario.
type r8TypeDecl struct{}

func (r8TypeDecl) Name() string { return "R8" }

func (r8TypeDecl) Matches(edit syntax.TreeEdit, store *kb.Store) bool {
	switch edit.OldNodeKind {
	case "type_alias_declaration", "type_declaration":
		return true
	}
	switch edit.NewNodeKind {
	case "type_alias_declaration", "type_declaration":
		return true
	}
	return false
}

func (r8TypeDecl) Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error) {
	return &Refactor{Edits: nil}, nil
}
