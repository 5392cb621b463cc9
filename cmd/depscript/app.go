// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/depscript/depscript/internal/config"
	"github.com/depscript/depscript/internal/discovery"
	"github.com/depscript/depscript/internal/issue"
	"github.com/depscript/depscript/internal/resolve"
	"github.com/depscript/depscript/pkg/depscript"
	"github.com/depscript/depscript/pkg/platform"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// App is the composition root of the CLI. Command handlers receive it and
// reach configuration, output streams and the logger through it.
type App struct {
	stdout  io.Writer
	stderr  io.Writer
	flags   rootFlags
	cfg     *config.Config
	cfgPath string
	root    string
	logger  *slog.Logger
}

func newApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.DefaultConfig(),
		logger: slog.Default(),
	}
}

// setup resolves the project root, loads configuration and installs the
// logger. It runs before every command.
func (a *App) setup(cmd *cobra.Command) error {
	root := a.flags.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project root %s: %w", root, err)
	}
	a.root = abs

	loaded, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		ProjectRoot:    a.root,
	})
	if err != nil {
		return err
	}
	a.cfg = loaded.Config
	a.cfgPath = loaded.Path

	if !cmd.Flags().Changed("verbose") {
		a.flags.verbose = a.cfg.UI.Verbose
	}
	level := a.cfg.Log.Level.Level()
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = newLogger(a.stderr, level)
	slog.SetDefault(a.logger)
	applyColorScheme(a.cfg.UI.ColorScheme)
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		Level:  charmlog.Level(level),
		Prefix: config.AppName,
	}))
}

// target merges the target flags over the configured target and fills the
// remaining fields from the host.
func (a *App) target() depscript.Target {
	requested := a.cfg.Target.Target()
	for _, f := range []struct {
		flag string
		dst  *string
	}{
		{a.flags.system, &requested.System},
		{a.flags.platform, &requested.Platform},
		{a.flags.architecture, &requested.Architecture},
		{a.flags.configuration, &requested.Configuration},
	} {
		if f.flag != "" {
			*f.dst = f.flag
		}
	}
	if a.flags.system != "" && a.flags.platform == "" {
		// A system given on the command line picks its own default platform.
		requested.Platform = ""
	}
	return platform.DefaultTarget(requested, platform.HostSystem(), platform.HostMachine())
}

// resolver creates a resolver over the project root.
func (a *App) resolver() *resolve.Resolver {
	return resolve.New(os.DirFS(a.root),
		resolve.WithManifestDir(filepath.ToSlash(a.cfg.ManifestDir)),
		resolve.WithLogger(a.logger),
	)
}

// resolveError attaches catalog guidance to fatal resolution errors.
func resolveError(err error) error {
	ctx := issue.NewErrorContext().WithOperation("resolve manifests")

	var perr *depscript.ParseError
	var cerr *resolve.CycleError
	var terr *depscript.InvalidTargetError
	switch {
	case errors.As(err, &cerr):
		ctx.WithResource(cerr.Path()).
			WithIssue(issue.ManifestCycleId).
			WithSuggestion("Remove one of the list entries forming the cycle")
	case errors.As(err, &perr):
		ctx.WithResource(perr.Path).
			WithIssue(issue.ManifestParseErrorId).
			WithSuggestion("Entries look like system:architecture:configuration~source=destination")
	case errors.As(err, &terr):
		ctx.WithIssue(issue.InvalidTargetId).
			WithSuggestion("Pass --system, --architecture and --configuration explicitly")
	}
	return ctx.Wrap(err).BuildError()
}

// renderDiagnostics writes non-fatal findings to stderr.
func (a *App) renderDiagnostics(diags []discovery.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(a.stderr, WarningStyle.Render("!")+" "+d.String())
	}
}

// renderError writes a fatal error. Verbose mode adds the error chain and the
// catalog entry linked to the error.
func (a *App) renderError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.flags.verbose))
	if !a.flags.verbose || ae.Issue == 0 {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	rendered, rerr := entry.Render(glamourStyle(a.cfg.UI.ColorScheme))
	if rerr != nil {
		a.logger.Debug("rendering issue failed", "error", rerr)
		return
	}
	fmt.Fprint(w, rendered)
}
