// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"jsonmodel-cli/internal/config"
)

// Dark palette - hex colors tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple - used for titles, headers, and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles, secondary text, and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for success states, checkmarks, and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors, failures, and negative outcomes.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings, caution states, and attention-needed items.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for model names, file paths, and interactive elements.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for verbose/debug output and supplementary details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Light palette - darker variants of the same hues, readable on light
// backgrounds.
const (
	colorPrimaryLight   = lipgloss.Color("#5B21B6")
	colorMutedLight     = lipgloss.Color("#4B5563")
	colorSuccessLight   = lipgloss.Color("#047857")
	colorErrorLight     = lipgloss.Color("#B91C1C")
	colorWarningLight   = lipgloss.Color("#B45309")
	colorHighlightLight = lipgloss.Color("#1D4ED8")
	colorVerboseLight   = lipgloss.Color("#6B7280")
)

// palette maps the style roles to terminal colors for one color scheme.
type palette struct {
	primary   lipgloss.TerminalColor
	muted     lipgloss.TerminalColor
	success   lipgloss.TerminalColor
	failure   lipgloss.TerminalColor
	warning   lipgloss.TerminalColor
	highlight lipgloss.TerminalColor
	verbose   lipgloss.TerminalColor
}

// schemePalette returns the palette for a configured color scheme. Auto
// resolves per color through lipgloss's background detection.
func schemePalette(scheme config.ColorScheme) palette {
	switch scheme {
	case config.ColorSchemeLight:
		return palette{
			primary:   colorPrimaryLight,
			muted:     colorMutedLight,
			success:   colorSuccessLight,
			failure:   colorErrorLight,
			warning:   colorWarningLight,
			highlight: colorHighlightLight,
			verbose:   colorVerboseLight,
		}
	case config.ColorSchemeDark:
		return palette{
			primary:   ColorPrimary,
			muted:     ColorMuted,
			success:   ColorSuccess,
			failure:   ColorError,
			warning:   ColorWarning,
			highlight: ColorHighlight,
			verbose:   ColorVerbose,
		}
	default:
		adapt := func(light, dark lipgloss.Color) lipgloss.AdaptiveColor {
			return lipgloss.AdaptiveColor{Light: string(light), Dark: string(dark)}
		}
		return palette{
			primary:   adapt(colorPrimaryLight, ColorPrimary),
			muted:     adapt(colorMutedLight, ColorMuted),
			success:   adapt(colorSuccessLight, ColorSuccess),
			failure:   adapt(colorErrorLight, ColorError),
			warning:   adapt(colorWarningLight, ColorWarning),
			highlight: adapt(colorHighlightLight, ColorHighlight),
			verbose:   adapt(colorVerboseLight, ColorVerbose),
		}
	}
}

// activePalette is the palette the shared styles are built from. It starts
// on the auto palette and applyColorScheme swaps it once configuration is
// loaded.
var activePalette = schemePalette(config.ColorSchemeAuto)

// Base styles - reusable lipgloss styles built from the active palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(activePalette.primary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(activePalette.muted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(activePalette.success)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(activePalette.failure)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(activePalette.warning)

	// NameStyle is for model and package names.
	NameStyle = lipgloss.NewStyle().
			Foreground(activePalette.highlight)

	// VerboseStyle is for verbose output and supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(activePalette.verbose)
)

// applyColorScheme rebuilds the shared styles for the configured scheme.
func applyColorScheme(scheme config.ColorScheme) {
	activePalette = schemePalette(scheme)

	TitleStyle = TitleStyle.Foreground(activePalette.primary)
	SubtitleStyle = SubtitleStyle.Foreground(activePalette.muted)
	SuccessStyle = SuccessStyle.Foreground(activePalette.success)
	ErrorStyle = ErrorStyle.Foreground(activePalette.failure)
	WarningStyle = WarningStyle.Foreground(activePalette.warning)
	NameStyle = NameStyle.Foreground(activePalette.highlight)
	VerboseStyle = VerboseStyle.Foreground(activePalette.verbose)
}
