// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const (
	// DefaultKind is the dependency repository pulled when none is requested.
	DefaultKind = "public"

	// DirPrefix prefixes the checkout directory of every dependency repository.
	DirPrefix = "deps-"

	// BinDir is the directory inside a checkout whose files are made executable.
	BinDir = "bin"
)

// ErrInvalidKind is returned when a repository kind cannot name a directory.
var ErrInvalidKind = errors.New("invalid dependency kind")

type (
	// Action describes what Pull did to the checkout.
	Action string

	// Options selects the repository to pull.
	Options struct {
		// Root is the project root the checkout is placed in.
		Root string
		// Kind selects the repository; it is appended to BaseURL.
		Kind string
		// BaseURL is the repository URL without the kind suffix.
		BaseURL string
		// Clean removes an existing checkout and clones it again.
		Clean bool
	}

	// Result reports the outcome of Pull.
	Result struct {
		Action Action
		// Path is the checkout directory.
		Path string
		// URL is the repository that was cloned or pulled.
		URL string
		// Head is the commit checked out after the operation.
		Head string
		// Executables lists the files under bin/ that were marked executable.
		Executables []string
	}

	// Fetcher performs Git operations for dependency repositories.
	Fetcher struct {
		auth    transport.AuthMethod
		logger  *slog.Logger
		getenv  func(string) string
		homeDir func() (string, error)
	}

	// Option configures a Fetcher.
	Option func(*Fetcher)
)

const (
	// ActionCloned means the checkout did not exist and was cloned.
	ActionCloned Action = "cloned"
	// ActionRecloned means an existing checkout was removed and cloned again.
	ActionRecloned Action = "recloned"
	// ActionPulled means an existing checkout was updated in place.
	ActionPulled Action = "pulled"
)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithAuth overrides the credentials discovered from the environment.
func WithAuth(auth transport.AuthMethod) Option {
	return func(f *Fetcher) { f.auth = auth }
}

// New creates a Fetcher. Unless WithAuth is given, credentials are chosen per
// repository URL: ~/.ssh keys for ssh and scp-style URLs, and the GITHUB_TOKEN,
// GITLAB_TOKEN or GIT_TOKEN environment variables for http and https URLs.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{logger: slog.Default(), getenv: os.Getenv, homeDir: os.UserHomeDir}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Validate reports whether the options can be used for Pull.
func (o Options) Validate() error {
	if o.Root == "" {
		return errors.New("project root is required")
	}
	if o.Kind == "" || strings.ContainsAny(o.Kind, `/\`) || o.Kind == "." || o.Kind == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKind, o.Kind)
	}
	if o.BaseURL == "" {
		return errors.New("base URL is required")
	}
	return nil
}

// CheckoutPath returns the directory the repository of this kind lives in.
func (o Options) CheckoutPath() string {
	return filepath.Join(o.Root, DirPrefix+o.Kind)
}

// URL returns the repository URL for this kind.
func (o Options) URL() string {
	return o.BaseURL + o.Kind
}

// Pull clones the repository when no checkout exists (or when Clean is set),
// otherwise pulls the current branch and updates submodules. Files under bin/
// are then marked executable.
func (f *Fetcher) Pull(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Path: opts.CheckoutPath(), URL: opts.URL()}

	var (
		repo *git.Repository
		err  error
	)
	auth := f.authFor(res.URL)
	_, statErr := os.Stat(res.Path)
	exists := statErr == nil

	switch {
	case exists && opts.Clean:
		f.logger.Info("re-cloning dependency repository", "url", res.URL, "path", res.Path)
		if err := removeAll(res.Path); err != nil {
			return Result{}, fmt.Errorf("removing %s: %w", res.Path, err)
		}
		res.Action = ActionRecloned
		repo, err = f.clone(ctx, res.URL, res.Path, auth)
	case exists:
		f.logger.Info("pulling dependency repository", "url", res.URL, "path", res.Path)
		res.Action = ActionPulled
		repo, err = f.pull(ctx, res.Path, auth)
	default:
		f.logger.Info("cloning dependency repository", "url", res.URL, "path", res.Path)
		res.Action = ActionCloned
		repo, err = f.clone(ctx, res.URL, res.Path, auth)
	}
	if err != nil {
		return Result{}, err
	}

	if head, err := repo.Head(); err == nil {
		res.Head = head.Hash().String()
	}

	res.Executables, err = MarkExecutable(filepath.Join(res.Path, BinDir))
	if err != nil {
		return Result{}, err
	}
	for _, p := range res.Executables {
		f.logger.Debug("marked executable", "path", p)
	}

	return res, nil
}

func (f *Fetcher) clone(ctx context.Context, url, dest string, auth transport.AuthMethod) (*git.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:               url,
		Auth:              auth,
		Depth:             1,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		ShallowSubmodules: true,
	})
	if err != nil {
		_ = os.RemoveAll(dest) // best-effort cleanup of a partial clone
		return nil, fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return repo, nil
}

func (f *Fetcher) pull(ctx context.Context, dir string, auth transport.AuthMethod) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		Auth:              auth,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, fmt.Errorf("failed to pull %s: %w", dir, err)
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		f.logger.Debug("dependency repository already up to date", "path", dir)
	}

	submodules, err := worktree.Submodules()
	if err != nil {
		return nil, fmt.Errorf("failed to list submodules: %w", err)
	}
	if len(submodules) > 0 {
		err = submodules.UpdateContext(ctx, &git.SubmoduleUpdateOptions{
			Init:              true,
			Auth:              auth,
			RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil, fmt.Errorf("failed to update submodules: %w", err)
		}
	}

	return repo, nil
}

// MarkExecutable adds the execute bits to every regular file below dir and
// returns the files it changed, in walk order. A missing dir is not an error.
func MarkExecutable(dir string) ([]string, error) {
	var marked []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return fs.SkipAll
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := os.Chmod(p, info.Mode().Perm()|0o111); err != nil {
			return fmt.Errorf("chmod %s: %w", p, err)
		}
		marked = append(marked, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return marked, nil
}

// removeAll deletes a checkout, first making read-only files writable.
func removeAll(dir string) error {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err == nil {
			if info, ierr := d.Info(); ierr == nil && info.Mode().Perm()&0o200 == 0 {
				_ = os.Chmod(p, info.Mode().Perm()|0o200)
			}
		}
		return nil
	})
	return os.RemoveAll(dir)
}

// authFor picks credentials matching the transport of url. go-git rejects
// SSH keys on http endpoints and basic auth on ssh endpoints.
func (f *Fetcher) authFor(url string) transport.AuthMethod {
	if f.auth != nil {
		return f.auth
	}
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil
	}
	switch ep.Protocol {
	case "ssh":
		return trySSHAuth(f.homeDir, ep.User)
	case "http", "https":
		return tryHTTPAuth(f.getenv)
	default:
		return nil
	}
}

// trySSHAuth loads the first usable default key from ~/.ssh.
func trySSHAuth(homeDir func() (string, error), user string) transport.AuthMethod {
	home, err := homeDir()
	if err != nil {
		return nil
	}
	if user == "" {
		user = "git"
	}
	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyPath := filepath.Join(home, ".ssh", name)
		if _, err := os.Stat(keyPath); err != nil {
			continue
		}
		if auth, err := ssh.NewPublicKeysFromFile(user, keyPath, ""); err == nil {
			return auth
		}
	}
	return nil
}

// tryHTTPAuth returns token credentials for the first token variable set.
func tryHTTPAuth(getenv func(string) string) transport.AuthMethod {
	tokens := []struct{ env, user string }{
		{"GITHUB_TOKEN", "x-access-token"},
		{"GITLAB_TOKEN", "gitlab-ci-token"},
		{"GIT_TOKEN", "git"},
	}
	for _, t := range tokens {
		if token := getenv(t.env); token != "" {
			return &http.BasicAuth{Username: t.user, Password: token}
		}
	}
	return nil
}
