// SPDX-License-Identifier: MPL-2.0

// Package dag provides the manifest include graph: a directed graph keyed by
// manifest path, with topological ordering, cycle detection and DOT export.
// An edge from A to B means "A includes B".
package dag

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes still blocked after ordering (enough to
		// identify the problem, not necessarily a minimal cycle).
		Cycle []string
	}

	// Edge is a single include relationship.
	Edge struct {
		From string
		To   string
	}

	// Graph is a directed graph of manifests. Nodes and edges keep insertion
	// order so every rendering is deterministic.
	Graph struct {
		adjacency map[string][]string
		nodes     []string
		nodeSet   map[string]bool
		edgeSet   map[Edge]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
		edgeSet:   make(map[Edge]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from includes to. Both nodes are added implicitly.
// A manifest that includes the same child twice still yields one edge.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return
	}
	g.edgeSet[e] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Children returns the nodes directly included by name, in insertion order.
func (g *Graph) Children(name string) []string { return slices.Clone(g.adjacency[name]) }

// Roots returns nodes that nothing includes, in insertion order.
func (g *Graph) Roots() []string {
	included := make(map[string]bool, len(g.nodes))
	for e := range g.edgeSet {
		included[e.To] = true
	}
	var roots []string
	for _, n := range g.nodes {
		if !included[n] {
			roots = append(roots, n)
		}
	}
	return roots
}

// Edges returns all edges ordered by source insertion, then target insertion.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.nodes {
		for _, to := range g.adjacency[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// TopologicalSort returns an order in which every includer precedes the
// manifests it includes, using Kahn's algorithm. Returns CycleError if the
// graph contains a cycle. Nodes at the same level keep insertion order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}

// DependencyOrder returns the reverse of TopologicalSort: included manifests
// come before the manifests that include them.
func (g *Graph) DependencyOrder() ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	slices.Reverse(order)
	return order, nil
}

// WriteDOT renders the graph in Graphviz DOT syntax.
func (g *Graph) WriteDOT(w io.Writer, name string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)
	for _, n := range g.nodes {
		fmt.Fprintf(&b, "  %q;\n", n)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
