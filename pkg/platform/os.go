// SPDX-License-Identifier: MPL-2.0

package platform

import "github.com/depscript/depscript/pkg/depscript"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// System identifiers as they appear in manifests and on the command line.
const (
	SystemGamingDesktop = depscript.SystemGamingDesktop
	SystemScarlett      = depscript.SystemScarlett
	SystemMacOSX        = depscript.SystemMacOSX
	SystemWindows       = depscript.SystemWindows
)

// Architecture labels used by manifests.
const (
	ArchX86       = "x86"
	ArchX86_64    = "x86_64"
	ArchARM       = "ARM"
	ArchARM64     = "ARM64"
	ArchUniversal = "Universal"
)

// DefaultConfiguration is used when no configuration is requested.
const DefaultConfiguration = "Debug"
