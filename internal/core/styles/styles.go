// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorBadge      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorTextStyle     lipgloss.Style
	WarningTextStyle   lipgloss.Style
	SuccessTextStyle   lipgloss.Style

	// Header bar.
	HeaderStyle        lipgloss.Style
	HeaderTitleStyle   lipgloss.Style
	BadgeStyle         lipgloss.Style
	UnreadDotStyle     lipgloss.Style
	StatusOnlineStyle  lipgloss.Style
	StatusPendingStyle lipgloss.Style
	StatusOfflineStyle lipgloss.Style

	// Notification panel.
	PanelStyle         lipgloss.Style
	PanelTitleStyle    lipgloss.Style
	PanelEmptyStyle    lipgloss.Style
	ItemTitleStyle     lipgloss.Style
	ItemReadTitleStyle lipgloss.Style
	ItemMessageStyle   lipgloss.Style
	ItemAgeStyle       lipgloss.Style
	ItemSelectedStyle  lipgloss.Style
	ItemCursorStyle    lipgloss.Style
	HelpStyle          lipgloss.Style

	// Toasts.
	ToastStyle        lipgloss.Style
	ToastTitleStyle   lipgloss.Style
	ToastMessageStyle lipgloss.Style
	ToastTTLStyle     lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorBadge = p.Badge
	if ColorBadge == nil {
		ColorBadge = p.Error
	}

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(ColorError)
	WarningTextStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	HeaderStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSurface)
	HeaderTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	BadgeStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorBadge).
		Foreground(ColorBackground).
		Bold(true)
	UnreadDotStyle = lipgloss.NewStyle().Foreground(ColorBadge)
	StatusOnlineStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusPendingStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	StatusOfflineStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
	PanelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	PanelEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Padding(1, 0)
	ItemTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	ItemReadTitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ItemMessageStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ItemAgeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	ItemSelectedStyle = lipgloss.NewStyle().
		Background(ColorSurface)
	ItemCursorStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastTitleStyle = lipgloss.NewStyle().Bold(true)
	ToastMessageStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	ToastTTLStyle = lipgloss.NewStyle().Foreground(ColorMuted)
}

// ColorForType maps a notification type to its accent color.
func ColorForType(t string) color.Color {
	switch t {
	case "success", "assignment_graded":
		return ColorSuccess
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	case "assignment_submitted":
		return ColorSecondary
	default:
		return ColorPrimary
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
