package styles

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile represents a custom theme definition loaded from YAML.
type ThemeFile struct {
	// Name is the theme's display name and the value tui.theme selects it by
	Name        string `yaml:"name"`
	Author      string `yaml:"author,omitempty"`
	Description string `yaml:"description,omitempty"`
	// Version is the theme file format version (currently "1")
	Version string      `yaml:"version"`
	Colors  ThemeColors `yaml:"colors"`
}

// ThemeColors contains all color definitions for a theme.
// All colors should be hex format (#RRGGBB or #RGB).
type ThemeColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`

	// Search colors (optional - derived from base colors if not specified)
	Search ThemeSearchColors `yaml:"search,omitempty"`

	// Annotation colors (optional - default to the viewer's tool colors)
	Annotations ThemeAnnotationColors `yaml:"annotations,omitempty"`
}

// ThemeSearchColors defines colors for search highlighting.
type ThemeSearchColors struct {
	MatchBg   string `yaml:"match_bg,omitempty"`
	MatchFg   string `yaml:"match_fg,omitempty"`
	CurrentBg string `yaml:"current_bg,omitempty"`
	CurrentFg string `yaml:"current_fg,omitempty"`
}

// ThemeAnnotationColors defines colors for annotation marks.
type ThemeAnnotationColors struct {
	Highlight string `yaml:"highlight,omitempty"`
	Underline string `yaml:"underline,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}
	return ParseTheme(data)
}

// ParseTheme parses and validates a YAML theme.
func ParseTheme(data []byte) (*ThemeFile, error) {
	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}
	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version == "" {
		return errors.New("theme version is required")
	}
	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	required := []struct{ name, color string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.color == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
		if !hexColorRegex.MatchString(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}

	optional := []struct{ name, color string }{
		{"search.match_bg", t.Colors.Search.MatchBg},
		{"search.match_fg", t.Colors.Search.MatchFg},
		{"search.current_bg", t.Colors.Search.CurrentBg},
		{"search.current_fg", t.Colors.Search.CurrentFg},
		{"annotations.highlight", t.Colors.Annotations.Highlight},
		{"annotations.underline", t.Colors.Annotations.Underline},
	}
	for _, c := range optional {
		if c.color != "" && !hexColorRegex.MatchString(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}
	return nil
}

// ToPalette converts the theme file to a Palette.
func (t *ThemeFile) ToPalette() *Palette {
	def := DefaultPalette()
	return &Palette{
		Primary:   lipgloss.Color(t.Colors.Primary),
		Secondary: lipgloss.Color(t.Colors.Secondary),
		Warning:   lipgloss.Color(t.Colors.Warning),
		Error:     lipgloss.Color(t.Colors.Error),
		Muted:     lipgloss.Color(t.Colors.Muted),
		Surface:   lipgloss.Color(t.Colors.Surface),
		Text:      lipgloss.Color(t.Colors.Text),
		Border:    lipgloss.Color(t.Colors.Border),

		MatchBg:   colorOrDefault(t.Colors.Search.MatchBg, lipgloss.Color(t.Colors.Surface)),
		MatchFg:   colorOrDefault(t.Colors.Search.MatchFg, lipgloss.Color(t.Colors.Warning)),
		CurrentBg: colorOrDefault(t.Colors.Search.CurrentBg, lipgloss.Color(t.Colors.Primary)),
		CurrentFg: colorOrDefault(t.Colors.Search.CurrentFg, lipgloss.Color(t.Colors.Text)),

		Highlight: colorOrDefault(t.Colors.Annotations.Highlight, def.Highlight),
		Underline: colorOrDefault(t.Colors.Annotations.Underline, def.Underline),
	}
}

func colorOrDefault(color string, def lipgloss.Color) lipgloss.Color {
	if color != "" {
		return lipgloss.Color(color)
	}
	return def
}

var (
	customMu     sync.RWMutex
	customThemes = make(map[ThemeName]*ThemeFile)
)

// RegisterCustomTheme registers a custom theme under its name.
func RegisterCustomTheme(theme *ThemeFile) {
	customMu.Lock()
	defer customMu.Unlock()
	customThemes[ThemeName(theme.Name)] = theme
}

// GetCustomTheme returns a custom theme by name, or nil if not found.
func GetCustomTheme(name ThemeName) *ThemeFile {
	customMu.RLock()
	defer customMu.RUnlock()
	return customThemes[name]
}

// CustomThemeNames returns the sorted names of all registered custom themes.
func CustomThemeNames() []string {
	customMu.RLock()
	defer customMu.RUnlock()
	names := make([]string, 0, len(customThemes))
	for name := range customThemes {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// ClearCustomThemes removes all registered custom themes.
func ClearCustomThemes() {
	customMu.Lock()
	defer customMu.Unlock()
	clear(customThemes)
}

// FromPalette builds a theme file describing p.
func FromPalette(name string, p *Palette) *ThemeFile {
	return &ThemeFile{
		Name:    name,
		Version: "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Search: ThemeSearchColors{
				MatchBg:   string(p.MatchBg),
				MatchFg:   string(p.MatchFg),
				CurrentBg: string(p.CurrentBg),
				CurrentFg: string(p.CurrentFg),
			},
			Annotations: ThemeAnnotationColors{
				Highlight: string(p.Highlight),
				Underline: string(p.Underline),
			},
		},
	}
}

// ExportTheme renders the named theme as YAML.
func ExportTheme(name ThemeName) ([]byte, error) {
	if !IsValidTheme(string(name)) {
		return nil, fmt.Errorf("unknown theme: %s", name)
	}
	theme := GetCustomTheme(name)
	if theme == nil {
		theme = FromPalette(string(name), GetPalette(name))
	}
	data, err := yaml.Marshal(theme)
	if err != nil {
		return nil, fmt.Errorf("marshaling theme: %w", err)
	}
	return data, nil
}
