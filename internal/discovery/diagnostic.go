// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityWarning indicates a recoverable problem; the operation continued.
	SeverityWarning Severity = "warning"
)

// Diagnostic codes emitted by discovery and its callers.
const (
	CodeManifestNotFound    = "manifest_not_found"
	CodeCopySourceMissing   = "copy_source_missing"
	CodeReservedDestination = "reserved_destination_name"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal finding that is returned to callers
	// (rather than written to stderr) so the CLI layer owns rendering.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
		// Code is a machine-readable identifier (e.g., "manifest_not_found").
		Code string `json:"code" yaml:"code" toml:"code"`
		// Message is the human-readable description.
		Message string `json:"message" yaml:"message" toml:"message"`
		// Path is the file path associated with this diagnostic (optional).
		Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error `json:"-" yaml:"-" toml:"-"`
	}
)

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
