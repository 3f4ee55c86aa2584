package syntax

import sitter "github.com/smacker/go-tree-sitter"

// FileID identifies a file within a single editor session, assigned by the
// editor on its first reference per the wire protocol (§6.2).
type FileID int32

// TreeEdit is the unit of work the analysis thread consumes: a single
// edit's effect on the parsed tree, expressed as the old and new byte
// ranges it touched and the node kinds bracketing the change.
type TreeEdit struct {
	File FileID

	OldStartByte, OldEndByte uint32
	NewStartByte, NewEndByte uint32

	// OldText/NewText are the full text of OldNodeKind/NewNodeKind — the
	// smallest common-ancestor node on each side of the edit, not just the
	// literally-typed fragment — since recognizers need the whole
	// identifier or clause to pattern-match against.
	OldText []byte
	NewText []byte

	OldNodeKind string
	NewNodeKind string

	// HasErrorNode is true when the post-edit tree contains at least one
	// ERROR node inside the changed region. Only R4/R5 (partial exposing
	// list edits) tolerate processing an edit with this set.
	HasErrorNode bool
}

// File is a single open buffer: its path, rope-backed content, current
// parse tree, and the do-not-refactor flag an editor can set on undo/redo.
type File struct {
	ID   FileID
	Path string

	Revision uint64

	// DoNotRefactor is set when the editor tells us this change came from
	// an undo/redo action (wire protocol reason 1/2). The session layer
	// sets it from the allow-refactor byte that every change frame
	// carries; an editor that has no undo/redo reason to report (Neovim)
	// sends the byte as 1, so absence of a reason means "do refactor".
	DoNotRefactor bool

	Tree *sitter.Tree
}
