package syntax

import sitter "github.com/smacker/go-tree-sitter"

// smallestEnclosingNode descends from root to the smallest node that still
// fully covers [start:end), stopping as soon as no child does. This is the
// "smallest common ancestor of the change" search from the component
// design: run once against the pre-edit tree and once against the
// post-edit tree (at their respective coordinates), it gives the minimal
// node-kind pair recognizers pattern-match on, instead of always reporting
// the whole file as having changed.
func smallestEnclosingNode(root *sitter.Node, start, end uint32) *sitter.Node {
	node := root
	for {
		child := enclosingChild(node, start, end)
		if child == nil {
			return node
		}
		node = child
	}
}

func enclosingChild(node *sitter.Node, start, end uint32) *sitter.Node {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child.StartByte() <= start && end <= child.EndByte() {
			return child
		}
	}
	return nil
}

func subtreeHasError(node *sitter.Node) bool {
	return node.HasError() || node.IsMissing()
}
