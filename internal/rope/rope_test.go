package rope_test

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/rope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpliceReplacesRange(t *testing.T) {
	b := rope.New([]byte("module Foo exposing (bar)"))

	old, err := b.Splice(7, 10, []byte("Baz"))
	require.NoError(t, err)
	assert.Equal(t, []byte("Foo"), old)
	assert.Equal(t, "module Baz exposing (bar)", string(b.Bytes()))
}

func TestSpliceRejectsOutOfRange(t *testing.T) {
	b := rope.New([]byte("short"))
	_, err := b.Splice(2, 100, []byte("x"))
	assert.Error(t, err)
}

func TestSpliceRejectsInvertedRange(t *testing.T) {
	b := rope.New([]byte("short"))
	_, err := b.Splice(4, 1, []byte("x"))
	assert.Error(t, err)
}

func TestCodePointToByteOffsetASCII(t *testing.T) {
	b := rope.New([]byte("hello world"))
	off, err := b.CodePointToByteOffset(6)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), off)
}

func TestCodePointToByteOffsetMultiByte(t *testing.T) {
	// "café" — é is 2 bytes in UTF-8, so code point 4 sits at byte 5.
	b := rope.New([]byte("café"))
	off, err := b.CodePointToByteOffset(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), off)
}

func TestLineColToByteOffset(t *testing.T) {
	b := rope.New([]byte("line0\nline1\nline2"))
	off, err := b.LineColToByteOffset(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(6+2), off)
}

func TestLineColOutOfRange(t *testing.T) {
	b := rope.New([]byte("only one line"))
	_, err := b.LineColToByteOffset(5, 0)
	assert.Error(t, err)
}
