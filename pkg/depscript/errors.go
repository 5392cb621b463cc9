// SPDX-License-Identifier: MPL-2.0

package depscript

import (
	"errors"
	"fmt"
)

var (
	// ErrManifestParse is the sentinel error wrapped by every manifest parse failure.
	ErrManifestParse = errors.New("manifest parse error")
	// ErrMissingTag is returned when a manifest has no !deplist or !depscript header.
	ErrMissingTag = errors.New("missing manifest tag")
	// ErrMalformedEntry is returned when a script line does not follow the entry grammar.
	ErrMalformedEntry = errors.New("malformed entry")
)

// ParseError describes why a manifest could not be parsed. Line is 0 when the
// failure is not tied to a specific line (e.g., an empty manifest).
type ParseError struct {
	// Path is the manifest file that failed to parse.
	Path string
	// Line is the 1-based line number of the offending line.
	Line int
	// Text is the offending line as written in the file.
	Text string
	// Err is the specific cause (ErrMissingTag or ErrMalformedEntry) with detail.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

// Unwrap exposes both the class sentinel and the specific cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrManifestParse, e.Err}
}
