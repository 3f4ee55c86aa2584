package refactor

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestR4RenamesCollidingLocalOnConflictingExposingIntroduction covers the
// "conflicting exposing introduction" scenario: Main declares a local
// "field" (and "field2"), then an edit adds "field" to Stuff's exposing
// list. The local must be renamed out of the way (numeric suffix) before
// the import's "field" can resolve unambiguously.
func TestR4RenamesCollidingLocalOnConflictingExposingIntroduction(t *testing.T) {
	store := kb.New()
	store.PutFile(
		&kb.Module{
			Name:           "Main",
			File:           1,
			DeclaredValues: []string{"field", "field2"},
		},
		[]kb.Import{{
			ImportingModule: "Main",
			ImportedModule:  "Stuff",
			Exposing:        kb.ExposingExplicit,
			ExposedNames:    nil,
			ExposingRange:   kb.ByteRange{Start: 50, End: 52},
		}},
		nil,
		[]kb.Occurrence{
			{Kind: kb.OccurrenceDefinition, Identifier: "field", Position: kb.Position{File: 1, StartByte: 10, EndByte: 15}},
			{Kind: kb.OccurrenceDefinition, Identifier: "field2", Position: kb.Position{File: 1, StartByte: 20, EndByte: 26}},
			{Kind: kb.OccurrenceUse, Identifier: "field", Position: kb.Position{File: 1, StartByte: 40, EndByte: 45}},
		},
	)

	edit := syntax.TreeEdit{
		File:         1,
		NewStartByte: 50, NewEndByte: 57,
		OldStartByte: 50, OldEndByte: 52,
		OldText:     []byte("()"),
		NewText:     []byte("(field)"),
		NewNodeKind: "exposing_list",
	}

	rf, matched, err := Dispatch(edit, store)
	require.NoError(t, err)
	require.True(t, matched)
	require.NotNil(t, rf)
	assert.Equal(t, "R4", rf.Recognizer)

	var renamedDef, renamedUse bool
	for _, te := range rf.Edits {
		switch {
		case te.StartByte == 10 && te.EndByte == 15:
			assert.Equal(t, "field3", te.ReplacementText)
			renamedDef = true
		case te.StartByte == 40 && te.EndByte == 45:
			assert.Equal(t, "field3", te.ReplacementText)
			renamedUse = true
		}
	}
	assert.True(t, renamedDef, "expected the colliding local's definition to be renamed")
	assert.True(t, renamedUse, "expected the colliding local's use to be renamed")
}
