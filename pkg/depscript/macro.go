// SPDX-License-Identifier: MPL-2.0

package depscript

import "strings"

// Macro tokens recognized in manifest text. Each token is delimited by '$' on
// both sides, which never appears in the manifest grammar itself.
const (
	// MacroArchitecture expands to the target architecture (e.g., "x86_64").
	MacroArchitecture = "$GENARCH$"
	// MacroBuildArchitecture expands to the architecture as the build system
	// labels it (the target platform, or a label derived from the architecture).
	MacroBuildArchitecture = "$BLDARCH$"
	// MacroConfiguration expands to the build configuration.
	MacroConfiguration = "$CONFIG$"
	// MacroDisplayConfiguration expands to the configuration with release-like
	// names collapsed to "Release".
	MacroDisplayConfiguration = "$DISPCONFIG$"
	// MacroPrefix expands to the library name prefix (e.g., "lib").
	MacroPrefix = "$PREFIX$"
	// MacroSuffix expands to the platform-specific library suffix (e.g., "-switch").
	MacroSuffix = "$SUFFIX$"
	// MacroStaticLibExt expands to the static library extension (e.g., ".a").
	MacroStaticLibExt = "$SLIBEXT$"
	// MacroDynamicLibExt expands to the dynamic library extension (e.g., ".so").
	MacroDynamicLibExt = "$DLIBEXT$"
	// MacroExecutableExt expands to the executable extension (e.g., ".exe").
	MacroExecutableExt = "$EXEEXT$"
	// MacroDebugSymbolExt expands to the debug symbol extension (e.g., ".pdb").
	MacroDebugSymbolExt = "$DBGEXT$"
)

// Known system identifiers with dedicated naming conventions.
const (
	SystemWindows       = "windows"
	SystemGamingDesktop = "gaming_desktop"
	SystemScarlett      = "scarlett"
	SystemMacOSX        = "macosx"
	SystemLinux         = "linux"
	SystemFreeBSD       = "freebsd"
	SystemOpenBSD       = "openbsd"
	SystemNetBSD        = "netbsd"
)

type (
	// Macro is a single token/value substitution.
	Macro struct {
		Token string
		Value string
	}

	// MacroSet is the ordered list of substitutions applied to manifest text.
	// Order is fixed so that expansion stays deterministic.
	MacroSet []Macro

	// namingConvention holds the file naming rules of a system family.
	namingConvention struct {
		prefix        string
		suffix        string
		staticLibExt  string
		dynamicLibExt string
		executableExt string
		debugExt      string
	}
)

var (
	windowsConvention = namingConvention{
		staticLibExt:  ".lib",
		dynamicLibExt: ".dll",
		executableExt: ".exe",
		debugExt:      ".pdb",
	}
	macConvention = namingConvention{
		prefix:        "lib",
		staticLibExt:  ".a",
		dynamicLibExt: ".dylib",
		debugExt:      ".dSYM",
	}
	posixConvention = namingConvention{
		prefix:        "lib",
		staticLibExt:  ".a",
		dynamicLibExt: ".so",
		debugExt:      ".debug",
	}

	releaseLikeConfigurations = map[string]bool{
		"Release":        true,
		"Retail":         true,
		"RelWithDebInfo": true,
		"MinSizeRel":     true,
	}
)

// conventionFor returns the naming rules for a system. Unrecognized systems
// get POSIX rules with the system name appended as a library suffix.
func conventionFor(system string) namingConvention {
	switch system {
	case SystemWindows, SystemGamingDesktop, SystemScarlett:
		return windowsConvention
	case SystemMacOSX:
		return macConvention
	case SystemLinux, SystemFreeBSD, SystemOpenBSD, SystemNetBSD:
		return posixConvention
	default:
		c := posixConvention
		c.suffix = "-" + system
		return c
	}
}

// BuildArchitecture returns the label the build system uses for the target
// architecture: the platform when one is set, otherwise a label derived from
// the architecture.
func BuildArchitecture(t Target) string {
	if t.Platform != "" {
		return t.Platform
	}
	if t.Architecture == "x86_64" {
		return "x64"
	}
	return t.Architecture
}

// DisplayConfiguration normalizes release-like configuration names to "Release".
func DisplayConfiguration(configuration string) string {
	if releaseLikeConfigurations[configuration] {
		return "Release"
	}
	return configuration
}

// NewMacroSet builds the substitutions for a target. Naming conventions depend
// on t.System only; the remaining values are taken from the target verbatim.
func NewMacroSet(t Target) MacroSet {
	c := conventionFor(t.System)
	return MacroSet{
		{Token: MacroArchitecture, Value: t.Architecture},
		{Token: MacroBuildArchitecture, Value: BuildArchitecture(t)},
		{Token: MacroConfiguration, Value: t.Configuration},
		{Token: MacroDisplayConfiguration, Value: DisplayConfiguration(t.Configuration)},
		{Token: MacroPrefix, Value: c.prefix},
		{Token: MacroSuffix, Value: c.suffix},
		{Token: MacroStaticLibExt, Value: c.staticLibExt},
		{Token: MacroDynamicLibExt, Value: c.dynamicLibExt},
		{Token: MacroExecutableExt, Value: c.executableExt},
		{Token: MacroDebugSymbolExt, Value: c.debugExt},
	}
}

// Expand replaces every occurrence of each token with its value, one pair at a
// time in set order. Unknown tokens are left untouched.
func (s MacroSet) Expand(text string) string {
	for _, m := range s {
		if !strings.Contains(text, m.Token) {
			continue
		}
		text = strings.ReplaceAll(text, m.Token, m.Value)
	}
	return text
}

// Lookup returns the value for a token.
func (s MacroSet) Lookup(token string) (string, bool) {
	for _, m := range s {
		if m.Token == token {
			return m.Value, true
		}
	}
	return "", false
}
