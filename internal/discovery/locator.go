// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/depscript/depscript/pkg/depscript"
)

// GenericSuffix names the explicit fallback manifest variant.
const GenericSuffix = "-generic"

// NotFoundPath is the Path of a Location whose manifest does not exist.
const NotFoundPath = ""

type (
	// Locator finds manifest files inside a read-only filesystem. It holds no
	// mutable state and is safe for concurrent use.
	Locator struct {
		fsys   fs.FS
		logger *slog.Logger
	}

	// Option configures a Locator.
	Option func(*Locator)

	// Location is the outcome of locating one logical manifest name.
	Location struct {
		// Name is the logical name as written by the caller.
		Name string
		// Path is the slash-separated path of the chosen file within the
		// filesystem, or NotFoundPath.
		Path string
		// Found reports whether a candidate exists.
		Found bool
		// Checked lists the candidates examined, in order.
		Checked []string
	}
)

// WithLogger sets the logger used for per-candidate debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocator creates a Locator over fsys.
func NewLocator(fsys fs.FS, opts ...Option) *Locator {
	l := &Locator{fsys: fsys, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FS returns the filesystem the locator reads from.
func (l *Locator) FS() fs.FS { return l.fsys }

// Candidates returns the file paths checked for name under dir, in priority
// order: <name>.txt, <name>-<system>-<platform>.txt, <name>-generic.txt. With
// an empty platform the literal <name>-<system>-.txt is followed by the
// shorter <name>-<system>.txt.
func Candidates(dir, name string, target depscript.Target) []string {
	specific := name + "-" + target.System + "-" + target.Platform
	candidates := []string{
		path.Join(dir, name+depscript.Extension),
		path.Join(dir, specific+depscript.Extension),
	}
	if target.Platform == "" {
		candidates = append(candidates, path.Join(dir, name+"-"+target.System+depscript.Extension))
	}
	return append(candidates, path.Join(dir, name+GenericSuffix+depscript.Extension))
}

// Locate returns the first existing candidate for name under dir. When no
// candidate exists, the Location is not found and a Diagnostic describes the
// names that were tried.
func (l *Locator) Locate(dir, name string, target depscript.Target) (Location, *Diagnostic) {
	loc := Location{Name: name, Path: NotFoundPath}

	for _, candidate := range Candidates(dir, name, target) {
		loc.Checked = append(loc.Checked, candidate)
		exists := l.isFile(candidate)
		l.logger.Debug("checking manifest candidate", "name", name, "path", candidate, "exists", exists)
		if exists {
			loc.Path = candidate
			loc.Found = true
			return loc, nil
		}
	}

	return loc, &Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeManifestNotFound,
		Message:  fmt.Sprintf("manifest %q not found (checked %s)", name, strings.Join(loc.Checked, ", ")),
		Path:     path.Join(dir, name),
	}
}

// isFile reports whether p names an existing regular file. Invalid paths
// (e.g., ones escaping the filesystem root) do not exist.
func (l *Locator) isFile(p string) bool {
	if !fs.ValidPath(p) {
		return false
	}
	info, err := fs.Stat(l.fsys, p)
	return err == nil && !info.IsDir()
}
