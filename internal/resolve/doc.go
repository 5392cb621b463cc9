// SPDX-License-Identifier: MPL-2.0

// Package resolve turns manifest names into an ordered copy list for a target.
//
// Resolution is depth-first and left to right. List manifests recurse into the
// names they reference, looked up relative to the referencing manifest's
// directory; script manifests contribute the entries whose conditions match
// the target. Duplicates are preserved: a manifest reached along two branches
// contributes its entries twice.
//
// A manifest that cannot be found is reported as a diagnostic and contributes
// nothing. A manifest that fails to parse, or that transitively references
// itself, aborts the whole resolution.
package resolve
