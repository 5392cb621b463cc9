// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/depscript/depscript/internal/resolve"
	"github.com/depscript/depscript/pkg/depscript"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the resolve command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

var resolveFormats = []string{formatText, formatJSON, formatYAML, formatTOML}

// resolveOutput is the document written by the structured formats.
type resolveOutput struct {
	Target         depscript.Target `json:"target" yaml:"target" toml:"target"`
	resolve.Result `yaml:",inline"`
}

func newResolveCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "resolve <manifest>...",
		Short: "Print the copy list of manifests without copying",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(resolveFormats, format) {
				return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(resolveFormats, ", "))
			}
			target := app.target()
			res, err := app.resolver().Resolve(cmd.Context(), args, target)
			if err != nil {
				return resolveError(err)
			}
			if format == formatText {
				app.renderDiagnostics(res.Diagnostics)
				writeCopyList(app.stdout, res.Copies)
				return nil
			}
			return writeResolveOutput(app.stdout, format, resolveOutput{Target: target, Result: res})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format ("+strings.Join(resolveFormats, "|")+")")
	return cmd
}

func writeCopyList(w io.Writer, copies []resolve.Copy) {
	for _, c := range copies {
		fmt.Fprintf(w, "%s -> %s\n", c.Source, c.Destination)
	}
}

func writeResolveOutput(w io.Writer, format string, out resolveOutput) error {
	if out.Copies == nil {
		out.Copies = []resolve.Copy{}
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
