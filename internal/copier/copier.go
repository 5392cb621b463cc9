// SPDX-License-Identifier: MPL-2.0

package copier

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/u-root/u-root/pkg/cp"
	"golang.org/x/sync/errgroup"

	"github.com/depscript/depscript/internal/discovery"
	"github.com/depscript/depscript/internal/resolve"
	"github.com/depscript/depscript/pkg/platform"
)

// ErrCopyFailed is returned when an existing source could not be copied.
var ErrCopyFailed = errors.New("copy failed")

type (
	// Status is the outcome of one copy entry.
	Status string

	// Options configures an Executor.
	Options struct {
		// Root is the directory sources are relative to.
		Root string
		// OutDir is the directory destinations are relative to.
		OutDir string
		// System is the target system; Windows-family targets get a warning
		// for destinations using reserved device names.
		System string
		// Dirty skips entries whose destination already exists.
		Dirty bool
		// Jobs bounds the number of entries copied concurrently. Entries with
		// overlapping destinations always run one after another, in order.
		Jobs int
		// Logger receives per-entry progress.
		Logger *slog.Logger
	}

	// Outcome describes one executed entry.
	Outcome struct {
		Copy        resolve.Copy `json:"copy"`
		Source      string       `json:"source_path"`
		Destination string       `json:"destination_path"`
		Status      Status       `json:"status"`
	}

	// Report is the result of Execute. Outcomes are in copy-list order.
	Report struct {
		Outcomes    []Outcome
		Diagnostics []discovery.Diagnostic
	}

	// Executor copies resolved entries.
	Executor struct {
		opts Options
	}

	// CopyError wraps the failure of a single entry.
	CopyError struct {
		Source      string
		Destination string
		Err         error
	}
)

const (
	// StatusCopied means the source was copied.
	StatusCopied Status = "copied"
	// StatusSkipped means dirty mode found the destination already present.
	StatusSkipped Status = "skipped"
	// StatusMissing means the source does not exist.
	StatusMissing Status = "missing"
)

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s -> %s: %v", e.Source, e.Destination, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *CopyError) Unwrap() []error { return []error{ErrCopyFailed, e.Err} }

// New creates an Executor.
func New(opts Options) *Executor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Executor{opts: opts}
}

// Count returns how many outcomes have the given status.
func (r Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Execute copies every entry. Missing sources and reserved destination names
// become diagnostics; a failed copy of an existing source stops execution.
func (x *Executor) Execute(ctx context.Context, copies []resolve.Copy) (Report, error) {
	report := Report{Outcomes: make([]Outcome, len(copies))}
	for i, c := range copies {
		report.Outcomes[i] = Outcome{
			Copy:        c,
			Source:      filepath.Join(x.opts.Root, filepath.FromSlash(c.Source)),
			Destination: filepath.Join(x.opts.OutDir, filepath.FromSlash(c.Destination)),
		}
		if platform.IsWindowsFamily(x.opts.System) {
			if name := platform.ReservedPathElement(c.Destination); name != "" {
				report.Diagnostics = append(report.Diagnostics, discovery.Diagnostic{
					Severity: discovery.SeverityWarning,
					Code:     discovery.CodeReservedDestination,
					Message:  fmt.Sprintf("destination uses reserved Windows name %q", name),
					Path:     c.Destination,
				})
			}
		}
	}

	x.opts.Logger.Info("copying dependencies", "count", len(copies), "from", x.opts.Root, "to", x.opts.OutDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.opts.Jobs)
	for _, group := range groupByDestination(report.Outcomes) {
		g.Go(func() error {
			for _, i := range group {
				if err := gctx.Err(); err != nil {
					return err
				}
				status, err := x.copyOne(report.Outcomes[i].Source, report.Outcomes[i].Destination)
				if err != nil {
					return err
				}
				report.Outcomes[i].Status = status
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for _, o := range report.Outcomes {
		if o.Status == StatusMissing {
			report.Diagnostics = append(report.Diagnostics, discovery.Diagnostic{
				Severity: discovery.SeverityWarning,
				Code:     discovery.CodeCopySourceMissing,
				Message:  fmt.Sprintf("couldn't find %s to copy to %s", o.Copy.Source, o.Copy.Destination),
				Path:     o.Source,
			})
		}
	}

	return report, nil
}

func (x *Executor) copyOne(src, dst string) (Status, error) {
	logger := x.opts.Logger

	if x.opts.Dirty {
		if _, err := os.Lstat(dst); err == nil {
			logger.Debug("skipping existing destination", "source", src, "destination", dst)
			return StatusSkipped, nil
		}
	}

	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("copy source not found", "source", src, "destination", dst)
		return StatusMissing, nil
	}
	if err != nil {
		return "", &CopyError{Source: src, Destination: dst, Err: err}
	}

	logger.Debug("copying", "source", src, "destination", dst)
	opts := cp.Options{
		NoFollowSymlinks: true,
		PreCallback:      prepareDestination,
		PostCallback:     preserveModTime,
	}
	err = os.MkdirAll(filepath.Dir(dst), 0o755)
	if err == nil && info.IsDir() {
		err = opts.CopyTree(src, dst)
	} else if err == nil {
		err = opts.Copy(src, dst)
	}
	if err != nil {
		return "", &CopyError{Source: src, Destination: dst, Err: err}
	}
	return StatusCopied, nil
}

// prepareDestination lets directory trees merge into existing destinations
// and symlinks replace existing ones.
func prepareDestination(_, dst string, srcInfo os.FileInfo) error {
	dstInfo, err := os.Lstat(dst)
	if err != nil {
		return nil
	}
	switch {
	case srcInfo.IsDir() && dstInfo.IsDir():
		return cp.ErrSkip
	case srcInfo.Mode()&os.ModeSymlink != 0:
		return os.Remove(dst)
	default:
		return nil
	}
}

// preserveModTime copies the source modification time onto regular files.
func preserveModTime(src, dst string) {
	info, err := os.Lstat(src)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// groupByDestination partitions outcome indices so that entries whose
// destinations are equal or nested share a group. Groups and the indices in
// them keep copy-list order.
func groupByDestination(outcomes []Outcome) [][]int {
	dests := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		dests[filepath.Clean(o.Destination)] = true
	}

	var (
		groups [][]int
		byKey  = make(map[string]int)
	)
	for i, o := range outcomes {
		key := outermostAncestor(filepath.Clean(o.Destination), dests)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], i)
	}
	return groups
}

// outermostAncestor returns the shortest member of dests that is p or one of
// its parent directories.
func outermostAncestor(p string, dests map[string]bool) string {
	best := p
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if dests[dir] {
			best = dir
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	return best
}
