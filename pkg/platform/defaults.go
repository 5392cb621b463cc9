// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"

	"github.com/depscript/depscript/pkg/depscript"
)

// gdkPlatforms maps Xbox GDK systems to the platform label their build system uses.
var gdkPlatforms = map[string]string{
	SystemGamingDesktop: "Gaming.Desktop.x64",
	SystemScarlett:      "Gaming.Xbox.Scarlett.x64",
}

// SystemFor maps a GOOS value to the system identifier used in manifests.
// Windows hosts build for the GDK desktop target and macOS hosts are "macosx";
// every other OS uses its GOOS name.
func SystemFor(goos string) string {
	switch goos {
	case Windows:
		return SystemGamingDesktop
	case Darwin:
		return SystemMacOSX
	default:
		return strings.ToLower(goos)
	}
}

// MachineFor maps a GOARCH value to the uname-style machine name the
// architecture rules in DefaultArchitecture expect.
func MachineFor(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "arm64"
	case "arm":
		return "armv7l"
	default:
		return goarch
	}
}

// HostSystem returns the system identifier of the running host.
func HostSystem() string { return SystemFor(runtime.GOOS) }

// HostMachine returns the uname-style machine name of the running host.
func HostMachine() string { return MachineFor(runtime.GOARCH) }

// DefaultPlatform returns the build-system platform label for a system, or ""
// when the system has none.
func DefaultPlatform(system string) string {
	return gdkPlatforms[system]
}

// DefaultArchitecture returns the architecture to build for on the given
// system when running on the given machine. Windows defaults to 32-bit x86,
// the GDK systems are always x86_64, and macOS builds universal binaries
// unless the machine is Apple silicon.
func DefaultArchitecture(system, machine string) string {
	machine = strings.ToLower(machine)

	switch system {
	case SystemWindows:
		return ArchX86
	case SystemGamingDesktop, SystemScarlett:
		return ArchX86_64
	case SystemMacOSX:
		if strings.Contains(machine, "arm64") {
			return ArchARM64
		}
		return ArchUniversal
	}

	switch {
	case strings.Contains(machine, "armv7"), strings.Contains(machine, "armv6"):
		return ArchARM
	case strings.Contains(machine, "arm64"), strings.Contains(machine, "aarch64"):
		return ArchARM64
	case strings.Contains(machine, "x86_64"):
		return ArchX86_64
	case strings.Contains(machine, "i386"), strings.Contains(machine, "i686"):
		return ArchX86
	default:
		return machine
	}
}

// DefaultTarget fills the empty fields of requested with defaults derived from
// the host system and machine. A requested system overrides the host system
// and drives the platform and architecture defaults.
func DefaultTarget(requested depscript.Target, hostSystem, machine string) depscript.Target {
	t := requested
	if t.System == "" {
		t.System = hostSystem
	}
	if t.Platform == "" {
		t.Platform = DefaultPlatform(t.System)
	}
	if t.Architecture == "" {
		t.Architecture = DefaultArchitecture(t.System, machine)
	}
	if t.Configuration == "" {
		t.Configuration = DefaultConfiguration
	}
	return t
}
