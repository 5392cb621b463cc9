// SPDX-License-Identifier: MPL-2.0

package resolve

import "github.com/depscript/depscript/internal/dag"

// Graph builds the include graph of a resolved tree. Nodes are keyed by
// Node.Key; a manifest reached along several branches appears once.
func Graph(nodes []*Node) *dag.Graph {
	g := dag.New()
	for _, n := range nodes {
		addNode(g, n)
	}
	return g
}

func addNode(g *dag.Graph, n *Node) {
	g.AddNode(n.Key())
	for _, child := range n.Children {
		g.AddEdge(n.Key(), child.Key())
		addNode(g, child)
	}
}
