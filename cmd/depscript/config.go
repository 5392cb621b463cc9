// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/depscript/depscript/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration",
		Long: `Inspect and create depscript configuration.

Configuration is read from the --config file, else <root>/` + config.ProjectConfigName + `,
else ` + config.ConfigFileName + "." + config.ConfigFileExt + ` in the user configuration directory. Every key can
be overridden with a ` + config.EnvPrefix + `_ environment variable, e.g. ` + config.EnvName("copy.jobs") + `.`,
	}
	cmd.AddCommand(
		newConfigShowCommand(app),
		newConfigPathCommand(app),
		newConfigInitCommand(app),
		newConfigDumpCommand(app),
	)
	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			source := app.cfgPath
			if source == "" {
				source = "defaults"
			}
			fmt.Fprintf(app.stdout, "// source: %s\n", source)
			fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return nil
		},
	}
}

func newConfigPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if app.cfgPath != "" {
				fmt.Fprintln(app.stdout, app.cfgPath)
				return nil
			}
			userPath, err := config.UserConfigPath("")
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stderr, WarningStyle.Render("no configuration file found; looked for:"))
			fmt.Fprintln(app.stderr, "  "+filepath.Join(app.root, config.ProjectConfigName))
			fmt.Fprintln(app.stderr, "  "+userPath)
			return &ExitError{Code: 1}
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	var user bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the default configuration to <root>/` + config.ProjectConfigName + `, or to the
user configuration directory with --user. An existing file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := filepath.Join(app.root, config.ProjectConfigName)
			if user {
				p, err := config.UserConfigPath("")
				if err != nil {
					return err
				}
				path = p
			}
			created, err := config.WriteDefault(path)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
			} else {
				fmt.Fprintf(app.stdout, "%s already exists\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "write to the user configuration directory")
	return cmd
}

func newConfigDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			enc := json.NewEncoder(app.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(app.cfg)
		},
	}
}
