package kb_test

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutFileTwiceReplacesRows(t *testing.T) {
	s := kb.New()

	mod := &kb.Module{Name: "Foo", File: 1, DeclaredValues: []string{"bar"}}
	s.PutFile(mod, nil, nil, []kb.Occurrence{{
		Kind:       kb.OccurrenceDefinition,
		Identifier: "bar",
		Position:   kb.Position{File: 1},
	}})

	got, ok := s.Module(1)
	require.True(t, ok)
	assert.Equal(t, "Foo", got.Name)

	usages := s.FindUsages("", "bar")
	assert.Len(t, usages, 1)

	// Replace with a module that no longer declares bar.
	mod2 := &kb.Module{Name: "Foo", File: 1, DeclaredValues: []string{"baz"}}
	s.PutFile(mod2, nil, nil, []kb.Occurrence{{
		Kind:       kb.OccurrenceDefinition,
		Identifier: "baz",
		Position:   kb.Position{File: 1},
	}})

	assert.Empty(t, s.FindUsages("", "bar"))
	assert.Len(t, s.FindUsages("", "baz"), 1)
}

func TestResolveLocalBindingShadowsImport(t *testing.T) {
	s := kb.New()

	s.PutFile(&kb.Module{Name: "Other", File: 2, DeclaredValues: []string{"x"}}, nil, nil, nil)

	scope := &kb.Scope{Module: "Main", Bindings: map[string]kb.Position{"x": {File: 1}}}
	s.PutFile(&kb.Module{Name: "Main", File: 1}, []kb.Import{
		{ImportingModule: "Main", ImportedModule: "Other", Exposing: kb.ExposingAll},
	}, []*kb.Scope{scope}, nil)

	res := s.Resolve("Main", []*kb.Scope{scope}, "", "x")
	assert.Equal(t, kb.ResolvedUnique, res.Status)
	assert.Equal(t, "Main", res.Module)
}

func TestResolveAmbiguousWhenTwoImportsExposeSameName(t *testing.T) {
	s := kb.New()
	s.PutFile(&kb.Module{Name: "A", File: 2, DeclaredValues: []string{"shared"}}, nil, nil, nil)
	s.PutFile(&kb.Module{Name: "B", File: 3, DeclaredValues: []string{"shared"}}, nil, nil, nil)
	s.PutFile(&kb.Module{Name: "Main", File: 1}, []kb.Import{
		{ImportingModule: "Main", ImportedModule: "A", Exposing: kb.ExposingAll},
		{ImportingModule: "Main", ImportedModule: "B", Exposing: kb.ExposingAll},
	}, nil, nil)

	res := s.Resolve("Main", nil, "", "shared")
	assert.Equal(t, kb.ResolvedAmbiguous, res.Status)
	assert.ElementsMatch(t, []string{"A", "B"}, res.Candidates)
}

func TestResolveQualifiedUsesAlias(t *testing.T) {
	s := kb.New()
	s.PutFile(&kb.Module{Name: "Json.Decode", File: 2, DeclaredValues: []string{"string"}}, nil, nil, nil)
	s.PutFile(&kb.Module{Name: "Main", File: 1}, []kb.Import{
		{ImportingModule: "Main", ImportedModule: "Json.Decode", Alias: "D"},
	}, nil, nil)

	res := s.Resolve("Main", nil, "D", "string")
	assert.Equal(t, kb.ResolvedUnique, res.Status)
	assert.Equal(t, "Json.Decode", res.Module)
}

func TestVisibleNamesIncludesLocalModuleAndExposedImports(t *testing.T) {
	s := kb.New()
	s.PutFile(&kb.Module{Name: "Other", File: 2, DeclaredValues: []string{"helper"}}, nil, nil, nil)
	s.PutFile(&kb.Module{Name: "Main", File: 1, DeclaredValues: []string{"main"}}, []kb.Import{
		{ImportingModule: "Main", ImportedModule: "Other", Exposing: kb.ExposingExplicit, ExposedNames: []string{"helper"}},
	}, nil, nil)

	names := s.VisibleNames("Main", nil)
	assert.ElementsMatch(t, []string{"main", "helper"}, names)
}
