// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func build(edges [][2]string, isolated ...string) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	for _, n := range isolated {
		g.AddNode(n)
	}
	return g
}

func TestTopologicalSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edges    [][2]string
		isolated []string
		want     []string
	}{
		{name: "empty"},
		{name: "single manifest", isolated: []string{"all.txt"}, want: []string{"all.txt"}},
		{
			name:  "nested lists",
			edges: [][2]string{{"all.txt", "libs.txt"}, {"libs.txt", "zlib.txt"}},
			want:  []string{"all.txt", "libs.txt", "zlib.txt"},
		},
		{
			name: "shared script reached twice",
			edges: [][2]string{
				{"app.txt", "sdl2.txt"}, {"app.txt", "openal.txt"},
				{"sdl2.txt", "zlib.txt"}, {"openal.txt", "zlib.txt"},
			},
			want: []string{"app.txt", "sdl2.txt", "openal.txt", "zlib.txt"},
		},
		{
			name:     "unrelated roots keep insertion order",
			edges:    [][2]string{{"a.txt", "b.txt"}},
			isolated: []string{"c.txt", "d.txt"},
			want:     []string{"a.txt", "c.txt", "d.txt", "b.txt"},
		},
		{
			name:  "repeated include",
			edges: [][2]string{{"a.txt", "b.txt"}, {"a.txt", "b.txt"}},
			want:  []string{"a.txt", "b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := build(tt.edges, tt.isolated...).TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopologicalSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopologicalSortCycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{name: "self include", edges: [][2]string{{"a.txt", "a.txt"}}, want: []string{"a.txt"}},
		{name: "mutual include", edges: [][2]string{{"a.txt", "b.txt"}, {"b.txt", "a.txt"}}, want: []string{"a.txt", "b.txt"}},
		{
			name:  "cycle below a root",
			edges: [][2]string{{"all.txt", "a.txt"}, {"a.txt", "b.txt"}, {"b.txt", "c.txt"}, {"c.txt", "a.txt"}},
			want:  []string{"a.txt", "b.txt", "c.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := build(tt.edges).TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("TopologicalSort() error = %v, want *CycleError", err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("Cycle = %v, want %v", cycleErr.Cycle, tt.want)
			}
		})
	}
}

func TestEdgesDeduplicated(t *testing.T) {
	t.Parallel()
	g := build([][2]string{{"a.txt", "b.txt"}, {"a.txt", "b.txt"}})
	if got := g.Edges(); len(got) != 1 || got[0] != (Edge{From: "a.txt", To: "b.txt"}) {
		t.Errorf("Edges() = %v", got)
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "include cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestDependencyOrder(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("app.txt", "sdl2.txt")
	g.AddEdge("sdl2.txt", "zlib.txt")

	order, err := g.DependencyOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"zlib.txt", "sdl2.txt", "app.txt"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestRootsAndChildren(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddNode("d")

	if roots := g.Roots(); !slices.Equal(roots, []string{"a", "d"}) {
		t.Errorf("Roots() = %v", roots)
	}
	if children := g.Children("a"); !slices.Equal(children, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v", children)
	}
	if !g.HasNode("c") || g.HasNode("x") {
		t.Error("HasNode mismatch")
	}
}

func TestWriteDOT(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a.txt", "b.txt")

	var buf strings.Builder
	if err := g.WriteDOT(&buf, "includes"); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	want := "digraph \"includes\" {\n  \"a.txt\";\n  \"b.txt\";\n  \"a.txt\" -> \"b.txt\";\n}\n"
	if buf.String() != want {
		t.Errorf("WriteDOT() =\n%s\nwant\n%s", buf.String(), want)
	}
}
