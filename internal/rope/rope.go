// Package rope holds the in-memory byte buffer for a single open file.
//
// It generalizes the prefix+replacement+suffix splice used by on-disk
// writeback to an in-memory buffer that is edited repeatedly as an editor
// sends changes, and that can translate between byte offsets (used by
// tree-sitter and the wire protocol's underlying storage) and UTF-8
// code-point offsets (used on the wire, see the session package).
package rope

import (
	"fmt"
	"unicode/utf8"
)

// Buffer is a mutable, byte-addressed view of a file's current content.
//
// It is not safe for concurrent use; callers (the analysis thread) must
// serialize access the same way the knowledge base does.
type Buffer struct {
	data []byte
}

// New creates a Buffer from the given initial content. The slice is copied
// so callers may reuse it.
func New(content []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(content))}
	copy(b.data, content)
	return b
}

// Bytes returns the buffer's current content. Callers must not mutate the
// returned slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the current length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Splice replaces the byte range [start:end) with newText and returns the
// old text that range held, which callers need to build a TreeEdit.
func (b *Buffer) Splice(start, end uint32, newText []byte) ([]byte, error) {
	if int(start) > len(b.data) || int(end) > len(b.data) || start > end {
		return nil, fmt.Errorf("rope: invalid byte range [%d:%d] for buffer of length %d", start, end, len(b.data))
	}

	old := make([]byte, end-start)
	copy(old, b.data[start:end])

	result := make([]byte, 0, int(start)+len(newText)+len(b.data)-int(end))
	result = append(result, b.data[:start]...)
	result = append(result, newText...)
	result = append(result, b.data[end:]...)
	b.data = result

	return old, nil
}

// CodePointToByteOffset converts a zero-indexed UTF-8 code-point offset into
// a byte offset into the buffer. Per the wire protocol, editor-supplied
// positions are code-point offsets, not UTF-16 code units and not bytes.
func (b *Buffer) CodePointToByteOffset(codePoints uint32) (uint32, error) {
	var byteOff, cp uint32
	for byteOff < uint32(len(b.data)) {
		if cp == codePoints {
			return byteOff, nil
		}
		_, size := utf8.DecodeRune(b.data[byteOff:])
		if size == 0 {
			break
		}
		byteOff += uint32(size)
		cp++
	}
	if cp == codePoints {
		return byteOff, nil
	}
	return 0, fmt.Errorf("rope: code point offset %d out of range (buffer has %d code points)", codePoints, cp)
}

// LineColToByteOffset converts a zero-indexed (line, column) pair, where
// column is a UTF-8 code-point count within the line, into a byte offset.
func (b *Buffer) LineColToByteOffset(line, col uint32) (uint32, error) {
	var byteOff, curLine uint32
	for curLine < line {
		idx := indexByteFrom(b.data, byteOff, '\n')
		if idx < 0 {
			return 0, fmt.Errorf("rope: line %d out of range (buffer has %d lines)", line, curLine+1)
		}
		byteOff = uint32(idx) + 1
		curLine++
	}

	var cp uint32
	for byteOff < uint32(len(b.data)) && b.data[byteOff] != '\n' {
		if cp == col {
			return byteOff, nil
		}
		_, size := utf8.DecodeRune(b.data[byteOff:])
		if size == 0 {
			break
		}
		byteOff += uint32(size)
		cp++
	}
	if cp == col {
		return byteOff, nil
	}
	return 0, fmt.Errorf("rope: column %d out of range on line %d (line has %d code points)", col, line, cp)
}

func indexByteFrom(data []byte, from uint32, b byte) int {
	for i := int(from); i < len(data); i++ {
		if data[i] == b {
			return i
		}
	}
	return -1
}
