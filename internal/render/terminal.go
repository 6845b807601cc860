package render

import (
	"github.com/disiqueira/gotree/v3"

	"github.com/ngenohkevin/storcat-agent/internal/catalog"
)

// Terminal renders the catalog as a plain-text tree for console output.
// maxDepth limits how deep directories are expanded; zero or less means unlimited.
func Terminal(root *catalog.Entry, maxDepth int) string {
	tree := gotree.New(label(root, true))
	addChildren(tree, root, 1, maxDepth)
	return tree.Print()
}

func addChildren(node gotree.Tree, e *catalog.Entry, depth, maxDepth int) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	for _, child := range e.Children {
		sub := node.Add(label(child, false))
		if child.IsDir() {
			addChildren(sub, child, depth+1, maxDepth)
		}
	}
}

func label(e *catalog.Entry, root bool) string {
	name := e.Basename()
	if e.IsDir() && !root {
		name += "/"
	}
	return FormatBytesForDisplay(e.Size) + " " + name
}
