// SPDX-License-Identifier: MPL-2.0

package depscript

import (
	"slices"
	"testing"
)

func TestEntry_Matches_WildcardFields(t *testing.T) {
	t.Parallel()

	wildcard := Entry{Source: "a", Destination: "a"}
	for _, target := range []Target{
		{System: "linux", Architecture: "x86_64", Configuration: "Debug"},
		{System: "gaming_desktop", Architecture: "ARM64", Configuration: "Release"},
		{},
	} {
		if !wildcard.Matches(target) {
			t.Errorf("wildcard entry should match %v", target)
		}
	}
}

func TestEntry_Matches(t *testing.T) {
	t.Parallel()

	entry, err := ParseEntry(":x86_64:Debug~foo=bar")
	if err != nil {
		t.Fatalf("ParseEntry() error: %v", err)
	}

	tests := []struct {
		name   string
		target Target
		want   bool
	}{
		{"any system", Target{System: "anything", Architecture: "x86_64", Configuration: "Debug"}, true},
		{"other architecture", Target{Architecture: "ARM64", Configuration: "Debug"}, false},
		{"other configuration", Target{System: "linux", Architecture: "x86_64", Configuration: "Release"}, false},
		{"case sensitive", Target{System: "linux", Architecture: "X86_64", Configuration: "Debug"}, false},
		{"empty target field is not a wildcard", Target{System: "linux", Configuration: "Debug"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := entry.Matches(tt.target); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestEntry_Matches_IgnoresPlatform(t *testing.T) {
	t.Parallel()

	e := Entry{System: "gaming_desktop", Source: "a", Destination: "a"}
	if !e.Matches(Target{System: "gaming_desktop", Platform: "Gaming.Desktop.x64", Architecture: "x86_64", Configuration: "Debug"}) {
		t.Error("platform must not affect matching")
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Source: "1", Destination: "1"},
		{System: "windows", Source: "2", Destination: "2"},
		{Configuration: "Debug", Source: "3", Destination: "3"},
		{Source: "1", Destination: "1"},
	}
	got := Filter(entries, Target{System: "linux", Architecture: "x86_64", Configuration: "Debug"})
	var sources []string
	for _, e := range got {
		sources = append(sources, e.Source)
	}
	if want := []string{"1", "3", "1"}; !slices.Equal(sources, want) {
		t.Errorf("Filter() sources = %v, want %v", sources, want)
	}
}
