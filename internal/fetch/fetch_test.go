// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/depscript/depscript/internal/testutil"
)

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	valid := Options{Root: "/src", Kind: "public", BaseURL: "https://example.com/deps-"}

	tests := []struct {
		name     string
		mutate   func(*Options)
		wantErr  bool
		wantKind bool
	}{
		{name: "valid", mutate: func(*Options) {}},
		{name: "no root", mutate: func(o *Options) { o.Root = "" }, wantErr: true},
		{name: "no base url", mutate: func(o *Options) { o.BaseURL = "" }, wantErr: true},
		{name: "empty kind", mutate: func(o *Options) { o.Kind = "" }, wantErr: true, wantKind: true},
		{name: "kind with slash", mutate: func(o *Options) { o.Kind = "a/b" }, wantErr: true, wantKind: true},
		{name: "kind dotdot", mutate: func(o *Options) { o.Kind = ".." }, wantErr: true, wantKind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := valid
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantKind && !errors.Is(err, ErrInvalidKind) {
				t.Errorf("expected ErrInvalidKind, got %v", err)
			}
		})
	}
}

func TestOptionsPaths(t *testing.T) {
	t.Parallel()

	o := Options{Root: filepath.Join("src", "game"), Kind: "private", BaseURL: "https://example.com/game-deps-"}
	if got, want := o.CheckoutPath(), filepath.Join("src", "game", "deps-private"); got != want {
		t.Errorf("CheckoutPath() = %q, want %q", got, want)
	}
	if got := o.URL(); got != "https://example.com/game-deps-private" {
		t.Errorf("URL() = %q", got)
	}
}

func TestPullRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New().Pull(context.Background(), Options{Root: t.TempDir(), Kind: "x/y", BaseURL: "u"})
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Pull() error = %v, want ErrInvalidKind", err)
	}
}

func TestMarkExecutable(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not tracked on Windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "bin")
	if err := os.MkdirAll(filepath.Join(bin, "tools"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := []string{filepath.Join(bin, "shadercompiler"), filepath.Join(bin, "tools", "packer")}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("#!/bin/sh\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	marked, err := MarkExecutable(bin)
	if err != nil {
		t.Fatalf("MarkExecutable() error = %v", err)
	}
	if len(marked) != len(files) {
		t.Errorf("marked = %v, want %d files", marked, len(files))
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o111 != 0o111 {
			t.Errorf("%s mode = %v, want execute bits", f, info.Mode())
		}
	}
}

func TestMarkExecutableMissingDir(t *testing.T) {
	t.Parallel()

	marked, err := MarkExecutable(filepath.Join(t.TempDir(), "bin"))
	if err != nil {
		t.Fatalf("MarkExecutable() error = %v", err)
	}
	if len(marked) != 0 {
		t.Errorf("marked = %v", marked)
	}
}

func TestRemoveAllReadOnly(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "deps-public")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	f := filepath.Join(dir, "pack.idx")
	if err := os.WriteFile(f, []byte("x"), 0o444); err != nil {
		t.Fatal(err)
	}

	if err := removeAll(dir); err != nil {
		t.Fatalf("removeAll() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists: %v", err)
	}
}

func TestTryHTTPAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		wantUser string
	}{
		{name: "none", env: map[string]string{}},
		{name: "github", env: map[string]string{"GITHUB_TOKEN": "a", "GIT_TOKEN": "c"}, wantUser: "x-access-token"},
		{name: "gitlab", env: map[string]string{"GITLAB_TOKEN": "b"}, wantUser: "gitlab-ci-token"},
		{name: "generic", env: map[string]string{"GIT_TOKEN": "c"}, wantUser: "git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			auth := tryHTTPAuth(func(k string) string { return tt.env[k] })
			if tt.wantUser == "" {
				if auth != nil {
					t.Errorf("expected no auth, got %v", auth)
				}
				return
			}
			basic, ok := auth.(*http.BasicAuth)
			if !ok {
				t.Fatalf("expected *http.BasicAuth, got %T", auth)
			}
			if basic.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", basic.Username, tt.wantUser)
			}
		})
	}
}

// writeSSHKey creates home/.ssh/id_ecdsa holding a fresh unencrypted key.
func writeSSHKey(t *testing.T, home string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	testutil.MustWriteFile(t, filepath.Join(home, ".ssh", "id_ecdsa"), string(block))
}

func TestAuthForMatchesTransport(t *testing.T) {
	t.Parallel()

	withKey := t.TempDir()
	writeSSHKey(t, withKey)
	withoutKey := t.TempDir()

	tests := []struct {
		name     string
		url      string
		home     string
		env      map[string]string
		wantType string
	}{
		{name: "https with key present", url: "https://git.example.com/deps-public", home: withKey},
		{name: "https with token and key present", url: "https://git.example.com/deps-public", home: withKey,
			env: map[string]string{"GITHUB_TOKEN": "t"}, wantType: "basic"},
		{name: "http with token", url: "http://git.example.com/deps-public", home: withoutKey,
			env: map[string]string{"GIT_TOKEN": "t"}, wantType: "basic"},
		{name: "ssh url with key", url: "ssh://git@git.example.com/deps-public", home: withKey,
			env: map[string]string{"GITHUB_TOKEN": "t"}, wantType: "ssh"},
		{name: "scp style with key", url: "git@git.example.com:deps-public", home: withKey, wantType: "ssh"},
		{name: "ssh without key", url: "ssh://git@git.example.com/deps-public", home: withoutKey},
		{name: "local path", url: "/srv/git/deps-public", home: withKey,
			env: map[string]string{"GITHUB_TOKEN": "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := New()
			f.getenv = func(k string) string { return tt.env[k] }
			f.homeDir = func() (string, error) { return tt.home, nil }

			auth := f.authFor(tt.url)
			switch tt.wantType {
			case "":
				if auth != nil {
					t.Errorf("authFor(%q) = %T, want nil", tt.url, auth)
				}
			case "basic":
				if _, ok := auth.(*http.BasicAuth); !ok {
					t.Errorf("authFor(%q) = %T, want *http.BasicAuth", tt.url, auth)
				}
			case "ssh":
				keys, ok := auth.(*ssh.PublicKeys)
				if !ok {
					t.Fatalf("authFor(%q) = %T, want *ssh.PublicKeys", tt.url, auth)
				}
				if keys.User != "git" {
					t.Errorf("User = %q, want git", keys.User)
				}
			}
		})
	}
}

func TestAuthForExplicitOverride(t *testing.T) {
	t.Parallel()

	explicit := &http.BasicAuth{Username: "ci", Password: "secret"}
	f := New(WithAuth(explicit))
	if got := f.authFor("ssh://git@git.example.com/deps-public"); got != explicit {
		t.Errorf("authFor() = %v, want the WithAuth credentials", got)
	}
}
