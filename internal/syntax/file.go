package syntax

import (
	"context"
	"fmt"

	"github.com/elm-pair/elm-pair/internal/rope"
	sitter "github.com/smacker/go-tree-sitter"
)

// OpenFile pairs a rope buffer with its parse state for one editor-visible
// file. Each OpenFile belongs to one editor session and is read and edited
// only from that session's connection goroutine.
type OpenFile struct {
	File   File
	Buffer *rope.Buffer
	parser *sitter.Parser
}

// Open parses content for the first time, establishing the initial tree
// for a file the editor just told us about (wire message type 0).
func Open(id FileID, path string, content []byte) (*OpenFile, error) {
	parser := NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("syntax: parse %s: %w", path, err)
	}
	return &OpenFile{
		File: File{
			ID:   id,
			Path: path,
			Tree: tree,
		},
		Buffer: rope.New(content),
		parser: parser,
	}, nil
}

// ApplyEdit is the apply_edit operation from the component design: it
// splices newText into the buffer, re-parses incrementally using the prior
// tree, and returns the structural diff between old and new trees as a
// TreeEdit. It returns a nil TreeEdit (and nil error) when the edit produced
// no structural change at all (the smallest enclosing node has the same
// kind and the same text before and after the edit), matching the "no-op"
// outcome allowed by §4.1. The buffer, tree, and revision are updated either
// way.
func (f *OpenFile) ApplyEdit(byteStart, byteEnd uint32, textNew []byte) (*TreeEdit, error) {
	preEditSource := append([]byte(nil), f.Buffer.Bytes()...)
	oldNode := smallestEnclosingNode(f.File.Tree.RootNode(), byteStart, byteEnd)
	oldStart, oldEnd := oldNode.StartByte(), oldNode.EndByte()
	oldKind := oldNode.Type()
	oldContent := oldNode.Content(preEditSource)

	oldText, err := f.Buffer.Splice(byteStart, byteEnd, textNew)
	if err != nil {
		return nil, fmt.Errorf("syntax: apply edit: %w", err)
	}

	oldTree := f.File.Tree
	delta := int32(len(textNew)) - int32(len(oldText))
	newEnd := uint32(int32(byteEnd) + delta)

	oldTree.Edit(sitter.EditInput{
		StartIndex:  byteStart,
		OldEndIndex: byteEnd,
		NewEndIndex: newEnd,
	})

	newTree, err := f.parser.ParseCtx(context.Background(), oldTree, f.Buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("syntax: reparse %s: %w", f.File.Path, err)
	}

	newNode := smallestEnclosingNode(newTree.RootNode(), byteStart, newEnd)
	newContent := newNode.Content(f.Buffer.Bytes())

	f.File.Tree = newTree
	f.File.Revision++

	if oldKind == newNode.Type() && oldContent == newContent {
		return nil, nil
	}

	te := &TreeEdit{
		File:         f.File.ID,
		OldStartByte: oldStart,
		OldEndByte:   oldEnd,
		NewStartByte: newNode.StartByte(),
		NewEndByte:   newNode.EndByte(),
		OldText:      []byte(oldContent),
		NewText:      []byte(newContent),
		OldNodeKind:  oldKind,
		NewNodeKind:  newNode.Type(),
		HasErrorNode: subtreeHasError(newNode),
	}

	return te, nil
}
