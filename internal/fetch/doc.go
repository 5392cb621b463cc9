// SPDX-License-Identifier: MPL-2.0

// Package fetch clones and updates the prebuilt dependency repository that
// manifests copy from. A repository of kind K is checked out into
// <root>/deps-K from <base-url>K.
package fetch
