package refactor_test

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/refactor"
	"github.com/elm-pair/elm-pair/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRecognizesRenameAtDefinition(t *testing.T) {
	store := kb.New()
	store.PutFile(&kb.Module{Name: "Main", File: 1, DeclaredValues: []string{"bar"}}, nil, nil, []kb.Occurrence{
		{Kind: kb.OccurrenceDefinition, Identifier: "bar", Position: kb.Position{File: 1, StartByte: 10, EndByte: 13}},
		{Kind: kb.OccurrenceUse, Identifier: "bar", Position: kb.Position{File: 1, StartByte: 30, EndByte: 33}},
	})

	edit := syntax.TreeEdit{
		File:         1,
		OldStartByte: 10, OldEndByte: 13,
		NewStartByte: 10, NewEndByte: 13,
		OldText:     []byte("bar"),
		NewText:     []byte("baz"),
		OldNodeKind: "lower_case_identifier",
		NewNodeKind: "lower_case_identifier",
	}

	rf, matched, err := refactor.Dispatch(edit, store)
	require.NoError(t, err)
	require.True(t, matched)
	require.NotNil(t, rf)
	assert.Equal(t, "R1", rf.Recognizer)
	require.Len(t, rf.Edits, 2)
}

func TestDispatchReturnsUnrecognizedForUnknownShape(t *testing.T) {
	store := kb.New()
	edit := syntax.TreeEdit{File: 1, OldNodeKind: "comment", NewNodeKind: "comment"}

	rf, matched, err := refactor.Dispatch(edit, store)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Nil(t, rf)
}

func TestDispatchSkipsNonTolerantRecognizersOnErrorNode(t *testing.T) {
	store := kb.New()
	store.PutFile(&kb.Module{Name: "Main", File: 1, DeclaredValues: []string{"bar"}}, nil, nil, []kb.Occurrence{
		{Kind: kb.OccurrenceDefinition, Identifier: "bar", Position: kb.Position{File: 1, StartByte: 10, EndByte: 13}},
	})

	edit := syntax.TreeEdit{
		File:         1,
		OldStartByte: 10, OldEndByte: 13,
		NewStartByte: 10, NewEndByte: 13,
		OldText:      []byte("bar"),
		NewText:      []byte("baz"),
		OldNodeKind:  "lower_case_identifier",
		NewNodeKind:  "lower_case_identifier",
		HasErrorNode: true,
	}

	_, matched, err := refactor.Dispatch(edit, store)
	require.NoError(t, err)
	assert.False(t, matched, "R1 must not run on an edit with an unresolved error node")
}

func TestDispatchRecognizesTypeDeclAsStructuralEventOnly(t *testing.T) {
	store := kb.New()
	edit := syntax.TreeEdit{
		File:        1,
		OldNodeKind: "type_alias_declaration",
		NewNodeKind: "ERROR",
	}

	rf, matched, err := refactor.Dispatch(edit, store)
	require.NoError(t, err)
	require.True(t, matched)
	require.NotNil(t, rf)
	assert.Equal(t, "R8", rf.Recognizer)
	assert.Empty(t, rf.Edits)
}
