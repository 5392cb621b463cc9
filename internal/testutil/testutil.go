// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// MustMkdirAll creates a directory along with any necessary parents.
func MustMkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustReadFile returns the content of path.
func MustReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// WriteTree writes files (slash-separated paths relative to root, mapped to
// their content) below root, in sorted path order.
//
// Usage:
//
//	root := t.TempDir()
//	testutil.WriteTree(t, root, map[string]string{
//	    "depscripts/sdl2.txt": "!depscript\n::~deps/sdl2/$PREFIX$SDL2$DLIBEXT$\n",
//	    "deps/sdl2/libSDL2.so": "elf",
//	})
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		MustWriteFile(t, filepath.Join(root, filepath.FromSlash(p)), files[p])
	}
}
