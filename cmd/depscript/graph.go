// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/depscript/depscript/internal/resolve"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"
)

// Output formats of the graph command.
const (
	graphTree  = "tree"
	graphDOT   = "dot"
	graphOrder = "order"
)

var graphFormats = []string{graphTree, graphDOT, graphOrder}

func newGraphCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph <manifest>...",
		Short: "Show the include tree of manifests",
		Long: `Show how the named manifests include each other.

  tree   the include tree, one branch per list entry
  dot    a Graphviz digraph of include edges
  order  manifests ordered so that every manifest follows the ones it includes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(graphFormats, format) {
				return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(graphFormats, ", "))
			}
			nodes, diags, err := app.resolver().Tree(cmd.Context(), args, app.target())
			if err != nil {
				return resolveError(err)
			}
			app.renderDiagnostics(diags)

			switch format {
			case graphDOT:
				return resolve.Graph(nodes).WriteDOT(app.stdout, "depscript")
			case graphOrder:
				order, err := resolve.Graph(nodes).DependencyOrder()
				if err != nil {
					return err
				}
				for _, name := range order {
					fmt.Fprintln(app.stdout, name)
				}
				return nil
			default:
				writeTree(app.stdout, nodes)
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", graphTree, "output format ("+strings.Join(graphFormats, "|")+")")
	return cmd
}

func writeTree(w io.Writer, nodes []*resolve.Node) {
	for _, n := range nodes {
		fmt.Fprintln(w, buildTree(n).String())
	}
}

func buildTree(n *resolve.Node) *tree.Tree {
	t := tree.Root(nodeLabel(n))
	for _, child := range n.Children {
		if len(child.Children) == 0 {
			t.Child(nodeLabel(child))
			continue
		}
		t.Child(buildTree(child))
	}
	return t
}

func nodeLabel(n *resolve.Node) string {
	switch {
	case !n.Location.Found:
		return missingNodeStyle.Render(n.Name + " (not found)")
	case n.Manifest != nil && n.Manifest.IsScript():
		return fmt.Sprintf("%s %s", TitleStyle.Render(n.Name), SubtitleStyle.Render(fmt.Sprintf("(%s, %d entries)", n.Location.Path, len(n.Manifest.Entries))))
	default:
		return fmt.Sprintf("%s %s", TitleStyle.Render(n.Name), SubtitleStyle.Render("("+n.Location.Path+")"))
	}
}
