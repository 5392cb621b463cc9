// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the values of the persistent flags.
type rootFlags struct {
	root          string
	configPath    string
	verbose       bool
	system        string
	platform      string
	architecture  string
	configuration string
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "depscript",
		Short: "Copy build dependencies described by manifests",
		Long: TitleStyle.Render("depscript") + SubtitleStyle.Render(" - copy build dependencies described by manifests") + `

Manifests live in the depscripts/ directory of the project. A script manifest
('!depscript') lists copy entries of the form

  system:architecture:configuration~source=destination

and a list manifest ('!deplist') names other manifests. Names are looked up as
<name>.txt, then <name>-<system>-<platform>.txt, then <name>-generic.txt.
With no platform, <name>-<system>-.txt is tried before <name>-<system>.txt.

` + SubtitleStyle.Render("Examples:") + `
  depscript copy build/bin sdl2 zlib       Copy dependencies for the host
  depscript copy -s scarlett out/ app      Copy for another system
  depscript resolve --format json app      Print the copy list
  depscript graph app                      Show the manifest include tree
  depscript pull                           Clone or update deps-public`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.root, "root", "", "project root (default is the working directory)")
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is <root>/depscript.cue, then the user config dir)")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVarP(&app.flags.system, "system", "s", "", "target system (default derived from the host)")
	pf.StringVarP(&app.flags.platform, "platform", "p", "", "target platform, as the build system sees it")
	pf.StringVarP(&app.flags.architecture, "architecture", "a", "", "target architecture (x86, x86_64, ARM, ARM64, Universal)")
	pf.StringVarP(&app.flags.configuration, "configuration", "c", "", "build configuration (default Debug)")

	root.AddCommand(
		newCopyCommand(app),
		newResolveCommand(app),
		newGraphCommand(app),
		newPullCommand(app),
		newStampCommand(app),
		newConfigCommand(app),
	)
	return root
}

// versionString returns a formatted version string for display.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			app.renderError(w, err)
		}),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
