// SPDX-License-Identifier: MPL-2.0

// Package stamp records the commit a build was produced from in the output
// directory. The stamp file is rewritten only when the commit changes.
package stamp

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-git/v5"
)

// FileName is the name of the stamp file inside the output directory.
const FileName = "commit.txt"

// Result reports what Write did.
type Result struct {
	// Path is the stamp file.
	Path string
	// Commit is the current commit hash.
	Commit string
	// Previous is the stamp content found before writing, quotes included.
	Previous string
	// Updated reports whether the file was (re)written.
	Updated bool
}

// HeadCommit returns the hash of HEAD for the repository containing dir.
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Content returns the stamp file content for a commit: the hash in double quotes.
func Content(commit string) string {
	return strconv.Quote(commit)
}

// Write stamps outDir with commit, creating outDir when needed. The file is
// left untouched when it already holds the same stamp.
func Write(outDir, commit string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	res := Result{Path: filepath.Join(outDir, FileName), Commit: commit}
	want := Content(commit)

	data, err := os.ReadFile(res.Path)
	switch {
	case err == nil:
		res.Previous = string(bytes.TrimSpace(data))
	case !errors.Is(err, fs.ErrNotExist):
		return Result{}, fmt.Errorf("reading %s: %w", res.Path, err)
	}

	if res.Previous == want {
		logger.Debug("commit stamp unchanged", "path", res.Path, "commit", commit)
		return res, nil
	}

	logger.Info("updating commit stamp", "path", res.Path, "commit", want, "previous", res.Previous)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating %s: %w", outDir, err)
	}
	if err := os.WriteFile(res.Path, []byte(want), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", res.Path, err)
	}
	res.Updated = true
	return res, nil
}
