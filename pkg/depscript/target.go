// SPDX-License-Identifier: MPL-2.0

package depscript

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid target")

type (
	// Target identifies the build a resolution is performed for.
	// It is constructed once by the caller and never mutated.
	Target struct {
		// System is the operating system family (e.g., "linux", "gaming_desktop").
		System string `json:"system" yaml:"system" toml:"system"`
		// Platform is the platform label the build system uses (e.g., "Gaming.Desktop.x64").
		// It may be empty.
		Platform string `json:"platform" yaml:"platform" toml:"platform"`
		// Architecture is the CPU architecture (e.g., "x86_64", "ARM64", "Universal").
		Architecture string `json:"architecture" yaml:"architecture" toml:"architecture"`
		// Configuration is the build configuration (e.g., "Debug", "Release").
		Configuration string `json:"configuration" yaml:"configuration" toml:"configuration"`
	}

	// InvalidTargetError is returned when a Target has missing or malformed fields.
	// It wraps ErrInvalidTarget for errors.Is() compatibility.
	InvalidTargetError struct {
		FieldErrors []string
	}
)

// String renders the target as "system/platform/architecture/configuration".
func (t Target) String() string {
	return strings.Join([]string{t.System, t.Platform, t.Architecture, t.Configuration}, "/")
}

// Validate returns nil when the target can be resolved against.
// System, Architecture and Configuration are required; Platform may be empty.
// No field may contain whitespace or manifest separators, since such values
// could never equal a condition field.
func (t Target) Validate() error {
	var fieldErrs []string
	check := func(name, value string, required bool) {
		if value == "" {
			if required {
				fieldErrs = append(fieldErrs, name+" must not be empty")
			}
			return
		}
		if strings.ContainsAny(value, " \t\r\n"+MainSeparator+ConditionSeparator+ExpressionSeparator) {
			fieldErrs = append(fieldErrs, fmt.Sprintf("%s %q contains whitespace or a separator", name, value))
		}
	}
	check("system", t.System, true)
	check("platform", t.Platform, false)
	check("architecture", t.Architecture, true)
	check("configuration", t.Configuration, true)

	if len(fieldErrs) > 0 {
		return &InvalidTargetError{FieldErrors: fieldErrs}
	}
	return nil
}

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	return "invalid target: " + strings.Join(e.FieldErrors, "; ")
}

// Unwrap returns ErrInvalidTarget for errors.Is() compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }
