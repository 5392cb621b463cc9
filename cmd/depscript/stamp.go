// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/depscript/depscript/internal/issue"
	"github.com/depscript/depscript/internal/stamp"

	"github.com/spf13/cobra"
)

func newStampCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stamp <output_dir>",
		Short: "Record the current commit in <output_dir>/" + stamp.FileName,
		Long: `Write the hash of the commit checked out in the project root to
<output_dir>/` + stamp.FileName + `, quoted. The file is only rewritten when the
hash changed, so build systems do not see a new timestamp on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			outDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving output directory: %w", err)
			}
			res, err := app.stamp(outDir)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("write commit stamp").
					WithResource(outDir).
					WithIssue(issue.CommitStampFailedId).
					WithSuggestion("Run inside a Git checkout or pass --root").
					Wrap(err).
					BuildError()
			}
			if res.Updated {
				fmt.Fprintf(app.stdout, "Updating %s to %s\n", res.Path, stamp.Content(res.Commit))
			} else {
				fmt.Fprintf(app.stdout, "%s is up to date\n", res.Path)
			}
			return nil
		},
	}
}

func (a *App) stamp(outDir string) (stamp.Result, error) {
	commit, err := stamp.HeadCommit(a.root)
	if err != nil {
		return stamp.Result{}, err
	}
	return stamp.Write(outDir, commit, a.logger)
}
