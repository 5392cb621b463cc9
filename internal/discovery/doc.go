// SPDX-License-Identifier: MPL-2.0

// Package discovery locates manifest files by logical name.
//
// A logical name such as "sdl2" may be satisfied by several files; the Locator
// checks, in order:
//
//  1. <name>.txt                      (system and platform agnostic)
//  2. <name>-<system>-<platform>.txt  (fully specific; with no platform this is
//     <name>-<system>-.txt, then <name>-<system>.txt)
//  3. <name>-generic.txt              (explicit fallback)
//
// A name that matches none of them is not an error: the Locator returns a
// not-found Location together with a Diagnostic, and callers decide how to
// surface it.
package discovery
