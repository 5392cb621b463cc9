// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/depscript/depscript/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple, used for titles and manifest names.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, used for paths and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber, used for diagnostics.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, used for arrows and commands.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for completed actions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for fatal errors.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for diagnostics and skipped entries.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names and arrows.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	missingNodeStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Italic(true)
)

// applyColorScheme forces the background detection of lipgloss when the
// configuration pins a scheme.
func applyColorScheme(cs config.ColorScheme) {
	switch cs {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// glamourStyle returns the glamour style name for issue rendering.
func glamourStyle(cs config.ColorScheme) string {
	switch cs {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return string(cs)
	default:
		return "auto"
	}
}
