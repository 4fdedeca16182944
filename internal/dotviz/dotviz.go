// Package dotviz exports an internal/tree.Node as Graphviz DOT, the
// "optional DOT/Graphviz tree visualization" collaborator named in the
// purpose section of the original specification — implemented here rather
// than left as a stub, since the CLI's -visualize flag needs it to do
// something.
package dotviz

import (
	"fmt"
	"io"
	"strings"

	"github.com/rpalvm/rpal/internal/tree"
)

// WriteAST emits a `digraph ast { ... }` body for an AST root.
func WriteAST(out io.Writer, root *tree.Node) { write(out, "ast", root) }

// WriteST emits a `digraph st { ... }` body for a standardized-tree root.
func WriteST(out io.Writer, root *tree.Node) { write(out, "st", root) }

func write(out io.Writer, title string, root *tree.Node) {
	fmt.Fprintf(out, "digraph %s {\n", title)
	fmt.Fprintln(out, "  node [shape=box, fontname=\"monospace\"];")
	id := 0
	walk(out, root, &id)
	fmt.Fprintln(out, "}")
}

func walk(out io.Writer, n *tree.Node, id *int) int {
	myID := *id
	*id++

	label := n.Label
	if n.IsLeaf && n.Value != "" {
		label = fmt.Sprintf("%s(%s)", n.Label, n.Value)
	}
	fmt.Fprintf(out, "  n%d [label=\"%s\"];\n", myID, escape(label))

	for _, c := range n.Children {
		childID := walk(out, c, id)
		fmt.Fprintf(out, "  n%d -> n%d;\n", myID, childID)
	}
	return myID
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
