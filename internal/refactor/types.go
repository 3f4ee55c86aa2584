// Package refactor holds the closed set of recognizers (R1 through R8)
// that turn a single TreeEdit, read against the knowledge base, into a
// multi-file Refactor — or decline to, when no recognizer matches.
package refactor

import "github.com/elm-pair/elm-pair/internal/syntax"

// TextEdit is one ordered replacement within the Refactor's edit list.
type TextEdit struct {
	File          syntax.FileID
	StartByte     uint32
	EndByte       uint32
	ReplacementText string
}

// Refactor is the multi-file result of a matched recognizer: an ordered
// list of text edits, plus any files the editor should open as a result
// (e.g. a file gaining a new import).
type Refactor struct {
	// Recognizer names which of R1-R8 produced this refactor, used only
	// for logging/diagnostics — never exposed on the wire.
	Recognizer string
	Edits      []TextEdit
	FilesToOpen []syntax.FileID
}

// State names the refactor pipeline's lifecycle, from the point a TreeEdit
// is received through to it being emitted to the editor or discarded.
type State int

const (
	StateReceived State = iota
	StateParsed
	StateRecognized
	StateUnrecognized
	StateSynthesized
	StateGated
	StateEmitted
	StateDiscarded
)
