// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/depscript/depscript/internal/config"
	"github.com/depscript/depscript/internal/issue"
	"github.com/depscript/depscript/internal/resolve"
	"github.com/depscript/depscript/pkg/depscript"
	"github.com/depscript/depscript/pkg/platform"
)

func TestAppTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   config.TargetConfig
		flags rootFlags
		want  depscript.Target
	}{
		{
			name:  "flags only",
			flags: rootFlags{system: "scarlett", configuration: "Release"},
			want: depscript.Target{
				System:        "scarlett",
				Platform:      "Gaming.Xbox.Scarlett.x64",
				Architecture:  "x86_64",
				Configuration: "Release",
			},
		},
		{
			name: "config only",
			cfg:  config.TargetConfig{System: "linux", Architecture: "ARM64"},
			want: depscript.Target{System: "linux", Architecture: "ARM64", Configuration: platform.DefaultConfiguration},
		},
		{
			name:  "flag system drops configured platform",
			cfg:   config.TargetConfig{System: "gaming_desktop", Platform: "Custom.Platform"},
			flags: rootFlags{system: "scarlett"},
			want: depscript.Target{
				System:        "scarlett",
				Platform:      "Gaming.Xbox.Scarlett.x64",
				Architecture:  "x86_64",
				Configuration: platform.DefaultConfiguration,
			},
		},
		{
			name:  "flags override config field by field",
			cfg:   config.TargetConfig{System: "linux", Architecture: "x86", Configuration: "Release"},
			flags: rootFlags{architecture: "x86_64"},
			want:  depscript.Target{System: "linux", Architecture: "x86_64", Configuration: "Release"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newApp(&bytes.Buffer{}, &bytes.Buffer{})
			app.cfg.Target = tt.cfg
			app.flags = tt.flags
			if got := app.target(); got != tt.want {
				t.Errorf("target() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		issue    issue.Id
		resource string
	}{
		{
			name:     "parse",
			err:      &depscript.ParseError{Path: "depscripts/a.txt", Line: 2, Err: depscript.ErrMalformedEntry},
			issue:    issue.ManifestParseErrorId,
			resource: "depscripts/a.txt",
		},
		{
			name:     "cycle",
			err:      &resolve.CycleError{Chain: []string{"depscripts/a.txt", "depscripts/a.txt"}},
			issue:    issue.ManifestCycleId,
			resource: "depscripts/a.txt",
		},
		{
			name:  "target",
			err:   &depscript.InvalidTargetError{FieldErrors: []string{"system must not be empty"}},
			issue: issue.InvalidTargetId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := resolveError(tt.err)
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("resolveError() = %T, want *issue.ActionableError", err)
			}
			if ae.Issue != tt.issue {
				t.Errorf("Issue = %v, want %v", ae.Issue, tt.issue)
			}
			if ae.Resource != tt.resource {
				t.Errorf("Resource = %q, want %q", ae.Resource, tt.resource)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause not preserved")
			}
		})
	}
}

func TestRenderErrorSkipsSilentExit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	app := newApp(&buf, &buf)
	app.renderError(&buf, &ExitError{Code: 1})
	if buf.Len() != 0 {
		t.Errorf("renderError wrote %q", buf.String())
	}

	app.renderError(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("renderError wrote %q, want boom", buf.String())
	}
}

func TestWriteResolveOutput(t *testing.T) {
	t.Parallel()

	out := resolveOutput{
		Target: depscript.Target{System: "linux", Architecture: "x86_64", Configuration: "Debug"},
		Result: resolve.Result{Copies: []resolve.Copy{
			{Source: "deps/a", Destination: "a", Manifest: "depscripts/x.txt", Line: 2},
		}},
	}

	tests := []struct {
		format string
		want   []string
	}{
		{formatJSON, []string{`"system": "linux"`, `"source": "deps/a"`, `"line": 2`}},
		{formatYAML, []string{"system: linux", "source: deps/a", "line: 2"}},
		{formatTOML, []string{"[target]", "[[copies]]", "line = 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := writeResolveOutput(&buf, tt.format, out); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("%s output missing %q:\n%s", tt.format, w, buf.String())
				}
			}
		})
	}

	if err := writeResolveOutput(&bytes.Buffer{}, "xml", out); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestWriteResolveOutputEmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeResolveOutput(&buf, formatJSON, resolveOutput{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"copies": []`) {
		t.Errorf("output %q lacks an empty copies list", buf.String())
	}
}
