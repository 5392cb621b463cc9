// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"path"
	"strings"
)

// WindowsReservedNames are filenames that cannot be used on Windows.
// These names are reserved by the operating system regardless of file extension.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName checks if a filename is a Windows reserved name.
// It handles filenames with extensions by checking just the base name portion.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return WindowsReservedNames[upper]
}

// IsWindowsFamily reports whether a manifest system identifier produces
// Windows binaries.
func IsWindowsFamily(system string) bool {
	switch system {
	case SystemWindows, SystemGamingDesktop, SystemScarlett:
		return true
	default:
		return false
	}
}

// ReservedPathElement returns the first element of a slash-separated relative
// path that is a Windows reserved name, or "" if there is none.
func ReservedPathElement(rel string) string {
	for _, elem := range strings.Split(path.Clean(strings.ReplaceAll(rel, "\\", "/")), "/") {
		if IsWindowsReservedName(elem) {
			return elem
		}
	}
	return ""
}
