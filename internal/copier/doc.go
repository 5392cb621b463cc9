// SPDX-License-Identifier: MPL-2.0

// Package copier executes a resolved copy list: every source (relative to the
// project root) is copied to its destination (relative to the output
// directory). Directories are copied recursively and merged into existing
// destinations; files overwrite. A missing source is reported and skipped.
package copier
