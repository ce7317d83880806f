package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette is the set of semantic colors every style is built from.
type Palette struct {
	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
	// Badge fills the unread counter in the header.
	Badge color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

func hex(s string) color.Color { return lipgloss.Color(s) }

var themes = map[string]Palette{
	"tokyo-night": {
		Primary: hex("#7aa2f7"), Secondary: hex("#7dcfff"),
		Foreground: hex("#c0caf5"), Muted: hex("#565f89"),
		Background: hex("#1a1b26"), Surface: hex("#3b4261"),
		Success: hex("#9ece6a"), Warning: hex("#e0af68"), Error: hex("#f7768e"),
		Badge: hex("#ff9e64"),
	},
	"gruvbox": {
		Primary: hex("#83a598"), Secondary: hex("#8ec07c"),
		Foreground: hex("#ebdbb2"), Muted: hex("#665c54"),
		Background: hex("#282828"), Surface: hex("#3c3836"),
		Success: hex("#b8bb26"), Warning: hex("#fabd2f"), Error: hex("#fb4934"),
		Badge: hex("#fe8019"),
	},
	"catppuccin": {
		Primary: hex("#89b4fa"), Secondary: hex("#94e2d5"),
		Foreground: hex("#cdd6f4"), Muted: hex("#6c7086"),
		Background: hex("#1e1e2e"), Surface: hex("#313244"),
		Success: hex("#a6e3a1"), Warning: hex("#f9e2af"), Error: hex("#f38ba8"),
		Badge: hex("#fab387"), // peach
	},
	"kanagawa": {
		Primary: hex("#7E9CD8"), Secondary: hex("#7FB4CA"),
		Foreground: hex("#DCD7BA"), Muted: hex("#727169"),
		Background: hex("#1F1F28"), Surface: hex("#2A2A37"),
		Success: hex("#76946A"), Warning: hex("#DCA561"), Error: hex("#C34043"),
		Badge: hex("#FF9E3B"), // roninYellow
	},
	"onedark": {
		Primary: hex("#61afef"), Secondary: hex("#56b6c2"),
		Foreground: hex("#abb2bf"), Muted: hex("#5c6370"),
		Background: hex("#282c34"), Surface: hex("#3e4452"),
		Success: hex("#98c379"), Warning: hex("#e5c07b"), Error: hex("#e06c75"),
		Badge: hex("#d19a66"),
	},
	"solarized-light": {
		Primary: hex("#268bd2"), Secondary: hex("#2aa198"),
		Foreground: hex("#586e75"), Muted: hex("#93a1a1"),
		Background: hex("#fdf6e3"), Surface: hex("#eee8d5"),
		Success: hex("#859900"), Warning: hex("#b58900"), Error: hex("#dc322f"),
		Badge: hex("#cb4b16"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
