package refactor

import (
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
)

// Recognizer is the closed-set pattern-matcher interface every R1-R8
// implementation satisfies. Per the design notes, dispatch over
// recognizers is a fixed, explicitly enumerated scan — never a registry or
// a heterogeneous dynamically-dispatched container — because the set of
// refactors this engine recognizes is closed by design, not extensible at
// runtime.
type Recognizer interface {
	Name() string
	Matches(edit syntax.TreeEdit, store *kb.Store) bool
	Synthesize(edit syntax.TreeEdit, store *kb.Store) (*Refactor, error)
}

// All lists the recognizers in their fixed dispatch order. Order matters
// only in that the first match wins; the recognizers are otherwise
// mutually exclusive by construction (each matches a distinct edit shape).
var All = []Recognizer{
	r1Rename{},
	r2AddQualifier{},
	r3RemoveQualifier{},
	r4AddExposing{},
	r5RemoveExposing{},
	r6ChangeAlias{},
	r7RemoveExposingAll{},
	r8TypeDecl{},
}

// Dispatch scans the recognizers in order and returns the first match's
// synthesized Refactor, or (nil, false) when nothing recognizes the edit —
// this maps directly onto the Recognized(k)/Unrecognized branch of the
// refactor pipeline's state machine.
func Dispatch(edit syntax.TreeEdit, store *kb.Store) (*Refactor, bool, error) {
	for _, r := range All {
		// Every recognizer except R4/R5 requires a clean (error-free) parse
		// of the edited region: partial exposing-list edits are the one
		// case where mid-keystroke syntax errors are expected and safe to
		// reason about anyway.
		if edit.HasErrorNode && r.Name() != "R4" && r.Name() != "R5" {
			continue
		}
		if r.Matches(edit, store) {
			rf, err := r.Synthesize(edit, store)
			if err != nil {
				return nil, true, err
			}
			if rf != nil {
				rf.Recognizer = r.Name()
			}
			return rf, true, nil
		}
	}
	return nil, false, nil
}
