// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/depscript/depscript/internal/fetch"
	"github.com/depscript/depscript/internal/issue"

	"github.com/spf13/cobra"
)

func newPullCommand(app *App) *cobra.Command {
	var (
		kind    string
		baseURL string
		clean   bool
	)
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Clone or update the dependency repository",
		Long: `Clone the dependency repository of the given kind into <root>/deps-<kind>,
or pull it and update its submodules when the checkout already exists. Files in
its bin/ directory are marked executable afterwards.

Credentials come from SSH_AUTH_SOCK, or from GITHUB_TOKEN, GITLAB_TOKEN or
GIT_TOKEN for HTTPS URLs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind == "" {
				kind = app.cfg.Deps.Kind
			}
			if baseURL == "" {
				baseURL = app.cfg.Deps.BaseURL
			}
			opts := fetch.Options{Root: app.root, Kind: kind, BaseURL: baseURL, Clean: clean}
			res, err := fetch.New(fetch.WithLogger(app.logger)).Pull(cmd.Context(), opts)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("fetch dependency repository").
					WithResource(opts.URL()).
					WithIssue(issue.DepsRepoFetchFailedId).
					WithSuggestion("Check the URL and your network connection").
					WithSuggestion("Run again with --clean to discard a broken checkout").
					Wrap(err).
					BuildError()
			}
			fmt.Fprintf(app.stdout, "%s %s into %s at %s\n",
				SuccessStyle.Render(string(res.Action)), res.URL, res.Path, shortHash(res.Head))
			if n := len(res.Executables); n > 0 {
				fmt.Fprintf(app.stdout, "Marked %d file(s) in %s executable\n", n, fetch.BinDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "dependency kind (default from config, public)")
	cmd.Flags().StringVarP(&baseURL, "base-url", "b", "", "repository URL prefix; the kind is appended")
	cmd.Flags().BoolVar(&clean, "clean", false, "remove the existing checkout and clone again")
	return cmd
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
