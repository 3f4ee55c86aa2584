package gate

import (
	"context"

	"github.com/elm-pair/elm-pair/internal/syntax"
)

// hasSyntaxError parses content with the Elm grammar and reports whether
// the resulting tree contains an ERROR or MISSING node. This is cheap
// relative to shelling out to the compiler, so Check runs it first and
// never invokes elm make on text that can't even parse.
func hasSyntaxError(content []byte) bool {
	parser := syntax.NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return true
	}
	root := tree.RootNode()
	return root == nil || root.HasError()
}
