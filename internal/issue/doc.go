// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the manifest or path involved,
// and remediation hints. The issue catalog holds longer Markdown guidance for
// the failure classes depscript reports (malformed manifests, include cycles,
// missing dependency repositories), rendered with glamour in verbose mode.
package issue
