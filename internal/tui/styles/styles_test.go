package styles

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestGetPalette(t *testing.T) {
	tests := []struct {
		name    ThemeName
		primary lipgloss.Color
	}{
		{ThemeDefault, "#A78BFA"},
		{ThemeDracula, "#BD93F9"},
		{ThemeNord, "#88C0D0"},
		{ThemeGruvbox, "#FE8019"},
		{ThemeSolarizedLight, "#268BD2"},
		{"unknown", "#A78BFA"},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := GetPalette(tt.name).Primary; got != tt.primary {
				t.Errorf("Expected primary %s, got %s", tt.primary, got)
			}
		})
	}
}

func TestIsValidTheme(t *testing.T) {
	defer ClearCustomThemes()

	for _, name := range BuiltinThemes() {
		if !IsValidTheme(name) {
			t.Errorf("Expected built-in theme %q to be valid", name)
		}
	}
	if IsValidTheme("neon") {
		t.Error("Expected unknown theme to be invalid")
	}

	RegisterCustomTheme(&ThemeFile{Name: "neon", Version: "1"})
	if !IsValidTheme("neon") {
		t.Error("Expected registered custom theme to be valid")
	}
	if got := ValidThemes(); got[len(got)-1] != "neon" {
		t.Errorf("Expected custom theme listed last, got %v", got)
	}
}

const validTheme = `
name: neon
version: "1"
colors:
  primary: "#ff00ff"
  secondary: "#00ff00"
  warning: "#ffff00"
  error: "#ff0000"
  muted: "#888"
  surface: "#111111"
  text: "#ffffff"
  border: "#444444"
  annotations:
    highlight: "#00ffff"
`

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neon.yaml")
	if err := os.WriteFile(path, []byte(validTheme), 0o644); err != nil {
		t.Fatal(err)
	}

	theme, err := LoadThemeFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFile() error = %v", err)
	}
	p := theme.ToPalette()
	if p.Primary != "#ff00ff" {
		t.Errorf("Expected primary #ff00ff, got %s", p.Primary)
	}
	if p.Highlight != "#00ffff" {
		t.Errorf("Expected highlight override, got %s", p.Highlight)
	}
	if p.Underline != DefaultPalette().Underline {
		t.Errorf("Expected default underline, got %s", p.Underline)
	}
	if p.MatchFg != "#ffff00" || p.CurrentBg != "#ff00ff" {
		t.Errorf("Expected search colors derived from base colors, got %s %s", p.MatchFg, p.CurrentBg)
	}
}

func TestParseTheme_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "version: \"1\"", "name is required"},
		{"missing version", "name: x", "version is required"},
		{"bad version", "name: x\nversion: \"2\"", "unsupported theme version"},
		{"missing color", "name: x\nversion: \"1\"", "color 'primary' is required"},
		{"bad color", strings.Replace(validTheme, `"#888"`, `"grey"`, 1), "color 'muted' has invalid format"},
		{"bad optional", strings.Replace(validTheme, `"#00ffff"`, `"cyan"`, 1), "annotations.highlight"},
		{"not yaml", "name: [unclosed", "parsing theme file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTheme([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNew_UsesRenderer(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	s := New(r, nil)

	if s.Palette.Primary != DefaultPalette().Primary {
		t.Error("Expected the default palette for a nil palette")
	}
	out := s.ButtonActive.Render("Zoom")
	if !strings.Contains(out, "Zoom") || out == "Zoom" {
		t.Errorf("Expected styled output, got %q", out)
	}

	plain := lipgloss.NewRenderer(io.Discard)
	plain.SetColorProfile(termenv.Ascii)
	if got := New(plain, nil).Highlight.Render("x"); got != "x" {
		t.Errorf("Expected no escape codes on an ascii renderer, got %q", got)
	}
}

func TestExportTheme_RoundTrip(t *testing.T) {
	data, err := ExportTheme(ThemeNord)
	if err != nil {
		t.Fatalf("ExportTheme() error = %v", err)
	}
	theme, err := ParseTheme(data)
	if err != nil {
		t.Fatalf("Expected exported theme to parse, got %v", err)
	}
	if got, want := theme.ToPalette().Primary, NordPalette().Primary; got != want {
		t.Errorf("Expected primary %s, got %s", want, got)
	}
}

func TestExportTheme_Unknown(t *testing.T) {
	if _, err := ExportTheme("nope"); err == nil {
		t.Error("Expected an error for an unknown theme")
	}
}
