// SPDX-License-Identifier: MPL-2.0

package depscript

import "fmt"

const (
	// KindList is a manifest whose body references other manifests by name.
	KindList Kind = iota + 1
	// KindScript is a manifest whose body is a sequence of conditional entries.
	KindScript
)

const (
	// ListTag is the header line selecting KindList.
	ListTag = "!deplist"
	// ScriptTag is the header line selecting KindScript.
	ScriptTag = "!depscript"

	// CommentMarker starts a comment that runs to the end of the line.
	CommentMarker = "//"
	// MainSeparator splits an entry into condition and expression.
	MainSeparator = "~"
	// ConditionSeparator splits the condition into system, architecture and configuration.
	ConditionSeparator = ":"
	// ExpressionSeparator splits the expression into source and destination.
	ExpressionSeparator = "="

	// Extension is the file extension of manifest files.
	Extension = ".txt"
)

type (
	// Kind tags the manifest variant.
	Kind int

	// Entry is one conditional copy instruction. An empty condition field is a
	// wildcard that matches any target value.
	Entry struct {
		System        string `json:"system,omitempty" yaml:"system,omitempty" toml:"system,omitempty"`
		Architecture  string `json:"architecture,omitempty" yaml:"architecture,omitempty" toml:"architecture,omitempty"`
		Configuration string `json:"configuration,omitempty" yaml:"configuration,omitempty" toml:"configuration,omitempty"`
		Source        string `json:"source" yaml:"source" toml:"source"`
		Destination   string `json:"destination" yaml:"destination" toml:"destination"`
		// Line is the 1-based line number the entry was parsed from.
		Line int `json:"line" yaml:"line" toml:"line"`
	}

	// Manifest is one parsed manifest file. Exactly one of Includes or Entries
	// is populated, according to Kind.
	Manifest struct {
		// Path is the location the manifest was read from.
		Path string
		// Kind selects the variant.
		Kind Kind
		// Includes holds the referenced manifest names of a KindList manifest,
		// in declaration order and not yet located.
		Includes []string
		// Entries holds the conditional entries of a KindScript manifest, in
		// declaration order.
		Entries []Entry
	}
)

// String returns the header tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindList:
		return ListTag
	case KindScript:
		return ScriptTag
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// String renders the entry back in manifest syntax.
func (e Entry) String() string {
	return e.System + ConditionSeparator + e.Architecture + ConditionSeparator + e.Configuration +
		MainSeparator + e.Source + ExpressionSeparator + e.Destination
}

// IsList reports whether the manifest is a list of other manifests.
func (m *Manifest) IsList() bool { return m.Kind == KindList }

// IsScript reports whether the manifest is a script of entries.
func (m *Manifest) IsScript() bool { return m.Kind == KindScript }
