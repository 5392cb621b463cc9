// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/depscript/depscript/internal/discovery"
	"github.com/depscript/depscript/pkg/depscript"
)

const (
	// DefaultManifestDir is the directory, relative to the project root, that
	// holds manifests.
	DefaultManifestDir = "depscripts"

	// DefaultMemoSize bounds the number of parsed manifests kept per request.
	DefaultMemoSize = 256
)

type (
	// Resolver resolves manifest names against a filesystem. It holds only
	// immutable configuration and is safe for concurrent use; all per-request
	// state lives inside each call.
	Resolver struct {
		fsys        fs.FS
		locator     *discovery.Locator
		manifestDir string
		memoSize    int
		logger      *slog.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Node is one manifest in the resolved include tree.
	Node struct {
		// Name is the logical name the manifest was referenced by.
		Name string
		// Location is the outcome of locating Name.
		Location discovery.Location
		// Manifest is nil when the manifest was not found.
		Manifest *depscript.Manifest
		// Children holds the nodes of a list manifest, in declaration order.
		Children []*Node
	}

	// Copy is one flattened copy instruction.
	Copy struct {
		Source      string `json:"source" yaml:"source" toml:"source"`
		Destination string `json:"destination" yaml:"destination" toml:"destination"`
		// Manifest is the path of the script the entry came from.
		Manifest string `json:"manifest" yaml:"manifest" toml:"manifest"`
		Line     int    `json:"line" yaml:"line" toml:"line"`
	}

	// Result is the outcome of a successful resolution.
	Result struct {
		Copies      []Copy                 `json:"copies" yaml:"copies" toml:"copies"`
		Diagnostics []discovery.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
	}

	// request carries the per-call state of one resolution.
	request struct {
		ctx         context.Context
		macros      depscript.MacroSet
		memo        *lru.Cache[string, *depscript.Manifest]
		stack       []string
		diagnostics []discovery.Diagnostic
	}
)

// WithManifestDir sets the directory top-level names are looked up in.
func WithManifestDir(dir string) Option {
	return func(r *Resolver) {
		if dir != "" {
			r.manifestDir = path.Clean(dir)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMemoSize bounds the per-request manifest memo.
func WithMemoSize(size int) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.memoSize = size
		}
	}
}

// New creates a Resolver reading manifests from fsys.
func New(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:        fsys,
		manifestDir: DefaultManifestDir,
		memoSize:    DefaultMemoSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.locator = discovery.NewLocator(fsys, discovery.WithLogger(r.logger))
	return r
}

// ManifestDir returns the directory top-level names are looked up in.
func (r *Resolver) ManifestDir() string { return r.manifestDir }

// Resolve flattens the named manifests into an ordered copy list for target.
// On error no partial result is returned.
func (r *Resolver) Resolve(ctx context.Context, names []string, target depscript.Target) (Result, error) {
	nodes, diagnostics, err := r.Tree(ctx, names, target)
	if err != nil {
		return Result{}, err
	}
	return Result{Copies: Flatten(nodes, target), Diagnostics: diagnostics}, nil
}

// Tree resolves the named manifests into their include tree without filtering
// entries.
func (r *Resolver) Tree(ctx context.Context, names []string, target depscript.Target) ([]*Node, []discovery.Diagnostic, error) {
	if err := target.Validate(); err != nil {
		return nil, nil, err
	}

	memo, err := lru.New[string, *depscript.Manifest](r.memoSize)
	if err != nil {
		return nil, nil, fmt.Errorf("creating manifest memo: %w", err)
	}
	req := &request{
		ctx:    ctx,
		macros: depscript.NewMacroSet(target),
		memo:   memo,
	}

	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		node, err := r.visit(req, r.manifestDir, name, target)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, node)
	}

	return nodes, req.diagnostics, nil
}

func (r *Resolver) visit(req *request, dir, name string, target depscript.Target) (*Node, error) {
	if err := req.ctx.Err(); err != nil {
		return nil, err
	}

	loc, diag := r.locator.Locate(dir, name, target)
	node := &Node{Name: name, Location: loc}
	if !loc.Found {
		r.logger.Debug("manifest not found", "name", name, "dir", dir)
		req.diagnostics = append(req.diagnostics, *diag)
		return node, nil
	}

	if idx := slices.Index(req.stack, loc.Path); idx >= 0 {
		chain := append(slices.Clone(req.stack[idx:]), loc.Path)
		return nil, &CycleError{Chain: chain}
	}

	manifest, err := r.load(req, loc.Path)
	if err != nil {
		return nil, err
	}
	node.Manifest = manifest

	if manifest.IsList() {
		req.stack = append(req.stack, loc.Path)
		base := path.Dir(loc.Path)
		for _, child := range manifest.Includes {
			childNode, err := r.visit(req, base, child, target)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, childNode)
		}
		req.stack = req.stack[:len(req.stack)-1]
	}

	return node, nil
}

// load reads, expands and parses a located manifest, at most once per request.
func (r *Resolver) load(req *request, p string) (*depscript.Manifest, error) {
	if m, ok := req.memo.Get(p); ok {
		r.logger.Debug("manifest memo hit", "path", p)
		return m, nil
	}

	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", p, err)
	}

	m, err := depscript.ParseMacros(p, string(data), req.macros)
	if err != nil {
		var perr *depscript.ParseError
		if errors.As(err, &perr) {
			r.logger.Debug("manifest parse failed", "path", p, "line", perr.Line)
		}
		return nil, err
	}
	r.logger.Debug("manifest parsed", "path", p, "kind", m.Kind.String(),
		"includes", len(m.Includes), "entries", len(m.Entries))

	req.memo.Add(p, m)
	return m, nil
}

// Flatten walks the tree depth-first and returns the entries of every script
// manifest that match target, in order, duplicates preserved.
func Flatten(nodes []*Node, target depscript.Target) []Copy {
	var copies []Copy
	for _, n := range nodes {
		copies = n.appendCopies(copies, target)
	}
	return copies
}

func (n *Node) appendCopies(copies []Copy, target depscript.Target) []Copy {
	if n.Manifest == nil {
		return copies
	}
	if n.Manifest.IsScript() {
		for _, e := range depscript.Filter(n.Manifest.Entries, target) {
			copies = append(copies, Copy{
				Source:      e.Source,
				Destination: e.Destination,
				Manifest:    n.Manifest.Path,
				Line:        e.Line,
			})
		}
		return copies
	}
	for _, child := range n.Children {
		copies = child.appendCopies(copies, target)
	}
	return copies
}

// Key returns the identifier used for the node in include graphs: the
// located path, or the logical name when the manifest was not found.
func (n *Node) Key() string {
	if n.Location.Found {
		return n.Location.Path
	}
	return n.Name
}
