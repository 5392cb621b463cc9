// SPDX-License-Identifier: MPL-2.0

// Package depscript implements the dependency manifest language.
//
// A manifest is a small text file that either lists other manifests (!deplist)
// or describes conditional source to destination copy entries (!depscript):
//
//	!depscript
//	// system:architecture:configuration~source=destination
//	:x86_64:Debug~deps/bin/$PREFIX$SDL2$DLIBEXT$=
//	gaming_desktop::~deps/gdk/Assets=Assets
//
// Empty condition fields match any target value and an omitted destination
// defaults to the source. Macro tokens such as $GENARCH$ are expanded against a
// Target before parsing, so conditions and paths may contain them.
//
// The package performs no filesystem access; locating and composing manifests
// is done by internal/discovery and internal/resolve.
package depscript
