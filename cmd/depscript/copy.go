// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/depscript/depscript/internal/copier"
	"github.com/depscript/depscript/internal/issue"
	"github.com/depscript/depscript/internal/watch"

	"github.com/spf13/cobra"
)

type copyFlags struct {
	dirty bool
	jobs  int
	watch bool
}

func newCopyCommand(app *App) *cobra.Command {
	var flags copyFlags
	cmd := &cobra.Command{
		Use:   "copy <output_dir> <manifest>...",
		Short: "Resolve manifests and copy their dependencies",
		Long: `Resolve the named manifests for the target and copy every matching entry
from the project root into the output directory.

Missing manifests and missing sources are reported as warnings and do not
fail the command. A manifest that cannot be parsed, or an include cycle,
aborts before anything is copied.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dirty") {
				flags.dirty = app.cfg.Copy.Dirty
			}
			if !cmd.Flags().Changed("jobs") {
				flags.jobs = app.cfg.Copy.Jobs
			}
			outDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving output directory: %w", err)
			}
			if flags.watch {
				return app.watchCopy(cmd.Context(), outDir, args[1:], flags)
			}
			_, err = app.copyOnce(cmd.Context(), outDir, args[1:], flags)
			return err
		},
	}
	cmd.Flags().BoolVarP(&flags.dirty, "dirty", "d", false, "skip entries whose destination already exists")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of entries copied concurrently (default from config)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "copy again whenever a manifest changes")
	return cmd
}

// copyOnce resolves names and copies the result into outDir.
func (a *App) copyOnce(ctx context.Context, outDir string, names []string, flags copyFlags) (copier.Report, error) {
	target := a.target()
	fmt.Fprintf(a.stdout, "Copying dependencies for %s %s %s %s from %s to %s\n",
		target.System, target.Configuration, target.Platform, target.Architecture, a.root, outDir)

	res, err := a.resolver().Resolve(ctx, names, target)
	if err != nil {
		return copier.Report{}, resolveError(err)
	}
	a.renderDiagnostics(res.Diagnostics)

	fmt.Fprintf(a.stdout, "Copying %d dependencies\n", len(res.Copies))
	report, err := copier.New(copier.Options{
		Root:   a.root,
		OutDir: outDir,
		System: target.System,
		Dirty:  flags.dirty,
		Jobs:   flags.jobs,
		Logger: a.logger,
	}).Execute(ctx, res.Copies)
	if err != nil {
		return copier.Report{}, issue.NewErrorContext().
			WithOperation("copy dependencies").
			WithResource(outDir).
			WithIssue(issue.CopyFailedId).
			WithSuggestion("Check that the output directory is writable").
			Wrap(err).
			BuildError()
	}

	for _, o := range report.Outcomes {
		switch o.Status {
		case copier.StatusCopied:
			fmt.Fprintf(a.stdout, "Copying %s %s %s\n", o.Source, CmdStyle.Render("->"), o.Destination)
		case copier.StatusSkipped:
			fmt.Fprintf(a.stdout, "Skipping %s %s %s\n", o.Source, CmdStyle.Render("->"), o.Destination)
		}
	}
	a.renderDiagnostics(report.Diagnostics)

	summary := fmt.Sprintf("Done: %d copied, %d skipped, %d missing",
		report.Count(copier.StatusCopied), report.Count(copier.StatusSkipped), report.Count(copier.StatusMissing))
	fmt.Fprintln(a.stdout, SuccessStyle.Render(summary))
	return report, nil
}

// watchCopy copies once, then again whenever a manifest changes, until ctx
// is canceled.
func (a *App) watchCopy(ctx context.Context, outDir string, names []string, flags copyFlags) error {
	if _, err := a.copyOnce(ctx, outDir, names, flags); err != nil {
		a.renderError(a.stderr, err)
	}

	manifestDir := filepath.Join(a.root, filepath.FromSlash(a.cfg.ManifestDir))
	w, err := watch.New(watch.Config{
		BaseDir:  manifestDir,
		Patterns: []string{watch.ManifestPattern},
		Logger:   a.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(a.stdout, "\n%s %d manifest(s) changed: %s\n",
				CmdStyle.Render("→"), len(changed), strings.Join(changed, ", "))
			if _, err := a.copyOnce(ctx, outDir, names, flags); err != nil {
				a.renderError(a.stderr, err)
			}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Fprintf(a.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)\n", CmdStyle.Render("→"), manifestDir)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
