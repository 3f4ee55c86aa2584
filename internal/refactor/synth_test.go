package refactor

import (
	"testing"

	"github.com/elm-pair/elm-pair/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRenderExposingListProducesValidElm splices renderExposingList's
// output into a real import's exposing_list span and reparses the result,
// guarding against the keyword-dropping bug where the replacement clobbered
// the "exposing" token and left behind invalid Elm the gate would discard.
func TestRenderExposingListProducesValidElm(t *testing.T) {
	const source = `module Foo exposing (main)

import String exposing (fromInt)

main = fromInt 1
`
	f, err := syntax.Open(1, "Foo.elm", []byte(source))
	require.NoError(t, err)

	imports, err := syntax.ExtractImports(f.File.Tree.RootNode(), f.Buffer.Bytes())
	require.NoError(t, err)
	require.Len(t, imports, 1)
	exposingNode := imports[0].ExposingNode
	require.NotNil(t, exposingNode)

	replacement := renderExposingList([]string{"fromInt", "toInt"}, false)
	assert.Contains(t, replacement, "exposing (")

	rewritten := string(f.Buffer.Bytes()[:exposingNode.StartByte()]) +
		replacement +
		string(f.Buffer.Bytes()[exposingNode.EndByte():])

	assert.Contains(t, rewritten, "import String exposing (fromInt, toInt)")

	reparsed, err := syntax.Open(1, "Foo.elm", []byte(rewritten))
	require.NoError(t, err)
	assert.False(t, reparsed.File.Tree.RootNode().HasError(), "rewritten import must parse cleanly")

	reimports, err := syntax.ExtractImports(reparsed.File.Tree.RootNode(), reparsed.Buffer.Bytes())
	require.NoError(t, err)
	require.Len(t, reimports, 1)
	assert.Equal(t, syntax.ExposingExplicit, reimports[0].Exposing)
	names := make([]string, 0, len(reimports[0].ExposedNames))
	for _, item := range reimports[0].ExposedNames {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"fromInt", "toInt"}, names)
}
