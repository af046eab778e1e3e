// Package styles holds the viewer's color palettes, theme files and the
// lipgloss styles derived from them.
package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName identifies a color theme.
type ThemeName string

// Built-in themes.
const (
	ThemeDefault        ThemeName = "default"
	ThemeDracula        ThemeName = "dracula"
	ThemeNord           ThemeName = "nord"
	ThemeGruvbox        ThemeName = "gruvbox"
	ThemeSolarizedLight ThemeName = "solarized-light"
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeGruvbox),
		string(ThemeSolarizedLight),
	}
}

// ValidThemes returns all valid theme names (built-in + custom).
func ValidThemes() []string {
	return append(BuiltinThemes(), CustomThemeNames()...)
}

// IsValidTheme checks if a theme name is valid (built-in or custom).
func IsValidTheme(name string) bool {
	if slices.Contains(BuiltinThemes(), name) {
		return true
	}
	return GetCustomTheme(ThemeName(name)) != nil
}

// Palette defines the color scheme for a theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Search highlight colors
	MatchBg   lipgloss.Color
	MatchFg   lipgloss.Color
	CurrentBg lipgloss.Color
	CurrentFg lipgloss.Color

	// Annotation colors for highlight and underline marks
	Highlight lipgloss.Color
	Underline lipgloss.Color
}

// DefaultPalette returns the default dark theme.
func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#A78BFA",
		Secondary: "#10B981",
		Warning:   "#F59E0B",
		Error:     "#F87171",
		Muted:     "#9CA3AF",
		Surface:   "#1F2937",
		Text:      "#F9FAFB",
		Border:    "#6B7280",
		MatchBg:   "#374151",
		MatchFg:   "#FBBF24",
		CurrentBg: "#A78BFA",
		CurrentFg: "#111827",
		Highlight: "#ffcd45",
		Underline: "#e44234",
	}
}

// DraculaPalette returns the Dracula theme.
func DraculaPalette() *Palette {
	return &Palette{
		Primary:   "#BD93F9",
		Secondary: "#50FA7B",
		Warning:   "#FFB86C",
		Error:     "#FF5555",
		Muted:     "#6272A4",
		Surface:   "#282A36",
		Text:      "#F8F8F2",
		Border:    "#44475A",
		MatchBg:   "#44475A",
		MatchFg:   "#F1FA8C",
		CurrentBg: "#FF79C6",
		CurrentFg: "#282A36",
		Highlight: "#F1FA8C",
		Underline: "#FF5555",
	}
}

// NordPalette returns the Nord theme.
func NordPalette() *Palette {
	return &Palette{
		Primary:   "#88C0D0",
		Secondary: "#A3BE8C",
		Warning:   "#EBCB8B",
		Error:     "#BF616A",
		Muted:     "#7B88A1",
		Surface:   "#3B4252",
		Text:      "#ECEFF4",
		Border:    "#4C566A",
		MatchBg:   "#434C5E",
		MatchFg:   "#EBCB8B",
		CurrentBg: "#88C0D0",
		CurrentFg: "#2E3440",
		Highlight: "#EBCB8B",
		Underline: "#BF616A",
	}
}

// GruvboxPalette returns the Gruvbox dark theme.
func GruvboxPalette() *Palette {
	return &Palette{
		Primary:   "#FE8019",
		Secondary: "#B8BB26",
		Warning:   "#FABD2F",
		Error:     "#FB4934",
		Muted:     "#A89984",
		Surface:   "#3C3836",
		Text:      "#EBDBB2",
		Border:    "#665C54",
		MatchBg:   "#504945",
		MatchFg:   "#FABD2F",
		CurrentBg: "#FE8019",
		CurrentFg: "#282828",
		Highlight: "#FABD2F",
		Underline: "#FB4934",
	}
}

// SolarizedLightPalette returns the light Solarized variant.
func SolarizedLightPalette() *Palette {
	return &Palette{
		Primary:   "#268BD2",
		Secondary: "#859900",
		Warning:   "#B58900",
		Error:     "#DC322F",
		Muted:     "#657B83",
		Surface:   "#EEE8D5",
		Text:      "#073642",
		Border:    "#93A1A1",
		MatchBg:   "#EEE8D5",
		MatchFg:   "#CB4B16",
		CurrentBg: "#268BD2",
		CurrentFg: "#FDF6E3",
		Highlight: "#B58900",
		Underline: "#DC322F",
	}
}

// GetPalette returns the palette for name. Custom themes win over built-in
// ones; unknown names get the default palette.
func GetPalette(name ThemeName) *Palette {
	if custom := GetCustomTheme(name); custom != nil {
		return custom.ToPalette()
	}

	switch name {
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}
