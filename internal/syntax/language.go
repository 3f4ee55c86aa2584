// Package syntax owns the incremental tree-sitter parser, the in-memory
// rope-backed buffer per open file, and the structural diff that turns a
// raw byte-range edit into a TreeEdit for the knowledge base and refactor
// engine to consume.
package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elm"
)

// GetLanguage returns the tree-sitter grammar for Elm, following the same
// per-language subpackage convention used for every other grammar in this
// tree-sitter binding (golang, python, rust, ...).
func GetLanguage() *sitter.Language {
	return elm.GetLanguage()
}

// NewParser returns a parser configured for Elm source.
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(GetLanguage())
	return p
}
