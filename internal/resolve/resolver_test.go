// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/depscript/depscript/internal/discovery"
	"github.com/depscript/depscript/pkg/depscript"
)

var linuxDebug = depscript.Target{
	System:        "linux",
	Architecture:  "x86_64",
	Configuration: "Debug",
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

func sources(copies []Copy) []string {
	out := make([]string, 0, len(copies))
	for _, c := range copies {
		out = append(out, c.Source)
	}
	return out
}

func TestResolveScript(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/zlib.txt": "!depscript\n" +
			"// shared libs\n" +
			"linux::~lib/$PREFIX$z$DLIBEXT$=bin/$PREFIX$z$DLIBEXT$\n" +
			"windows::~lib/z.dll\n" +
			":x86_64:Debug~lib/zd.pdb = bin/zd.pdb\n" +
			"::Release~lib/z_release\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"zlib"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []Copy{
		{Source: "lib/libz.so", Destination: "bin/libz.so", Manifest: "depscripts/zlib.txt", Line: 3},
		{Source: "lib/zd.pdb", Destination: "bin/zd.pdb", Manifest: "depscripts/zlib.txt", Line: 5},
	}
	if !slices.Equal(res.Copies, want) {
		t.Errorf("Copies = %+v, want %+v", res.Copies, want)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v", res.Diagnostics)
	}
}

func TestResolveListDepthFirst(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/app.txt":       "!deplist\nsdl2\nzlib\n",
		"depscripts/sdl2.txt":      "!deplist\nsdl2-core\nzlib\n",
		"depscripts/sdl2-core.txt": "!depscript\n::~sdl2\n",
		"depscripts/zlib.txt":      "!depscript\n::~zlib\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"app"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// zlib is reached twice (diamond) and contributes twice.
	want := []string{"sdl2", "zlib", "zlib"}
	if got := sources(res.Copies); !slices.Equal(got, want) {
		t.Errorf("sources = %v, want %v", got, want)
	}
}

func TestResolveMultipleTopLevelNames(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/a.txt": "!depscript\n::~a\n",
		"depscripts/b.txt": "!depscript\n::~b\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"b", "a", "b"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"b", "a", "b"}) {
		t.Errorf("sources = %v", got)
	}
}

func TestResolveNestedNamesRelativeToReferrer(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/app.txt":        "!deplist\nthird/sdl2\n",
		"depscripts/third/sdl2.txt": "!deplist\nzlib\n",
		"depscripts/third/zlib.txt": "!depscript\n::~third-zlib\n",
		"depscripts/zlib.txt":       "!depscript\n::~top-zlib\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"app"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"third-zlib"}) {
		t.Errorf("sources = %v", got)
	}
}

func TestResolveMissingManifestIsDiagnostic(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/app.txt":  "!deplist\nmissing\nzlib\n",
		"depscripts/zlib.txt": "!depscript\n::~zlib\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"app"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"zlib"}) {
		t.Errorf("sources = %v", got)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want 1", res.Diagnostics)
	}
	if res.Diagnostics[0].Code != discovery.CodeManifestNotFound {
		t.Errorf("Code = %q", res.Diagnostics[0].Code)
	}
}

func TestResolveMissingManifestNotLoggedAsWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	fsys := mapFS(map[string]string{"depscripts/app.txt": "!deplist\nmissing\n"})

	res, err := New(fsys, WithLogger(logger)).Resolve(context.Background(), []string{"app"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want 1", res.Diagnostics)
	}
	if buf.Len() != 0 {
		t.Errorf("missing manifest logged at warning level or above:\n%s", buf.String())
	}
}

func TestResolveUsesFallbackNames(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/sdl2-gaming_desktop-Gaming.Desktop.x64.txt": "!depscript\n::~gdk-sdl2\n",
		"depscripts/sdl2-generic.txt":                           "!depscript\n::~generic-sdl2\n",
	})
	gdk := depscript.Target{
		System:        "gaming_desktop",
		Platform:      "Gaming.Desktop.x64",
		Architecture:  "x64",
		Configuration: "Debug",
	}

	r := New(fsys)
	res, err := r.Resolve(context.Background(), []string{"sdl2"}, gdk)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"gdk-sdl2"}) {
		t.Errorf("gdk sources = %v", got)
	}

	res, err = r.Resolve(context.Background(), []string{"sdl2"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"generic-sdl2"}) {
		t.Errorf("linux sources = %v", got)
	}
}

func TestResolveParseErrorAborts(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/app.txt":    "!deplist\ngood\nbroken\n",
		"depscripts/good.txt":   "!depscript\n::~good\n",
		"depscripts/broken.txt": "!depscript\nlinux::Debug foo=bar\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"app"}, linuxDebug)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, depscript.ErrManifestParse) {
		t.Errorf("error %v does not match ErrManifestParse", err)
	}
	var perr *depscript.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Path != "depscripts/broken.txt" || perr.Line != 2 {
		t.Errorf("ParseError at %s:%d", perr.Path, perr.Line)
	}
	if len(res.Copies) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("partial result returned: %+v", res)
	}
}

func TestResolveCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     map[string]string
		wantChain []string
	}{
		{
			name:      "self reference",
			files:     map[string]string{"depscripts/a.txt": "!deplist\na\n"},
			wantChain: []string{"depscripts/a.txt", "depscripts/a.txt"},
		},
		{
			name: "indirect",
			files: map[string]string{
				"depscripts/a.txt": "!deplist\nb\n",
				"depscripts/b.txt": "!deplist\nc\n",
				"depscripts/c.txt": "!deplist\nb\n",
			},
			wantChain: []string{"depscripts/b.txt", "depscripts/c.txt", "depscripts/b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(mapFS(tt.files)).Resolve(context.Background(), []string{"a"}, linuxDebug)
			var cerr *CycleError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *CycleError, got %v", err)
			}
			if !slices.Equal(cerr.Chain, tt.wantChain) {
				t.Errorf("Chain = %v, want %v", cerr.Chain, tt.wantChain)
			}
			if !errors.Is(err, ErrManifestCycle) || !errors.Is(err, depscript.ErrManifestParse) {
				t.Errorf("cycle error does not match sentinels: %v", err)
			}
		})
	}
}

func TestResolveDiamondIsNotCycle(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/top.txt":   "!deplist\nleft\nright\n",
		"depscripts/left.txt":  "!deplist\nbase\n",
		"depscripts/right.txt": "!deplist\nbase\n",
		"depscripts/base.txt":  "!depscript\n::~base\n",
	})

	res, err := New(fsys).Resolve(context.Background(), []string{"top"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := sources(res.Copies); !slices.Equal(got, []string{"base", "base"}) {
		t.Errorf("sources = %v", got)
	}
}

func TestResolveInvalidTarget(t *testing.T) {
	t.Parallel()

	_, err := New(fstest.MapFS{}).Resolve(context.Background(), []string{"a"}, depscript.Target{})
	if !errors.Is(err, depscript.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestResolveCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := mapFS(map[string]string{"depscripts/a.txt": "!depscript\n::~a\n"})
	_, err := New(fsys).Resolve(ctx, []string{"a"}, linuxDebug)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWithManifestDir(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{"deps/manifests/a.txt": "!depscript\n::~a\n"})
	r := New(fsys, WithManifestDir("deps/manifests/"), WithMemoSize(4))
	if r.ManifestDir() != "deps/manifests" {
		t.Errorf("ManifestDir() = %q", r.ManifestDir())
	}
	res, err := r.Resolve(context.Background(), []string{"a"}, linuxDebug)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Copies) != 1 {
		t.Errorf("Copies = %v", res.Copies)
	}
}

func TestTreeAndGraph(t *testing.T) {
	t.Parallel()

	fsys := mapFS(map[string]string{
		"depscripts/app.txt":  "!deplist\nsdl2\nzlib\nghost\n",
		"depscripts/sdl2.txt": "!deplist\nzlib\n",
		"depscripts/zlib.txt": "!depscript\nwindows::~zlib.dll\n",
	})

	nodes, diags, err := New(fsys).Tree(context.Background(), []string{"app"}, linuxDebug)
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 3 {
		t.Fatalf("unexpected tree shape: %+v", nodes)
	}
	if len(diags) != 1 {
		t.Errorf("diagnostics = %v", diags)
	}
	// The entry is for windows only; the tree keeps it, the flattening drops it.
	if got := Flatten(nodes, linuxDebug); len(got) != 0 {
		t.Errorf("Flatten() = %v", got)
	}

	g := Graph(nodes)
	order, err := g.DependencyOrder()
	if err != nil {
		t.Fatalf("DependencyOrder() error = %v", err)
	}
	if order[len(order)-1] != "depscripts/app.txt" {
		t.Errorf("app should come last, got %v", order)
	}
	if !g.HasNode("ghost") {
		t.Errorf("missing manifests are keyed by name: %v", g.Nodes())
	}
	if len(g.Edges()) != 4 {
		t.Errorf("Edges() = %v, want 4", g.Edges())
	}
}
