package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

const testTheme = `name: "paper"
author: "Test Author"
version: "1"
colors:
  primary: "#A78BFA"
  secondary: "#10B981"
  warning: "#F59E0B"
  error: "#F87171"
  muted: "#9CA3AF"
  surface: "#1F2937"
  text: "#F9FAFB"
  border: "#6B7280"
`

func writeTheme(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test theme: %v", err)
	}
	return path
}

func TestRunThemeList(t *testing.T) {
	setupConfigDir(t)
	styles.ClearCustomThemes()
	defer styles.ClearCustomThemes()

	viper.Set("tui.theme_file", writeTheme(t, testTheme))

	out, err := run(t, runThemeList)
	if err != nil {
		t.Fatalf("runThemeList() error = %v", err)
	}
	for _, want := range []string{"- default", "- nord", "- paper (by Test Author)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunThemeExport(t *testing.T) {
	setupConfigDir(t)
	outputPath := filepath.Join(t.TempDir(), "exported.yaml")

	if _, err := run(t, runThemeExport, "nord", outputPath); err != nil {
		t.Fatalf("runThemeExport() error = %v", err)
	}

	theme, err := styles.LoadThemeFile(outputPath)
	if err != nil {
		t.Fatalf("exported theme does not load: %v", err)
	}
	if theme.Name != "nord" {
		t.Errorf("Expected name nord, got %q", theme.Name)
	}
}

func TestRunThemeExport_Stdout(t *testing.T) {
	setupConfigDir(t)

	out, err := run(t, runThemeExport, "dracula")
	if err != nil {
		t.Fatalf("runThemeExport() error = %v", err)
	}
	if !strings.Contains(out, "name: dracula") {
		t.Errorf("Expected YAML on stdout, got %q", out)
	}
}

func TestRunThemeExport_Unknown(t *testing.T) {
	setupConfigDir(t)

	_, err := run(t, runThemeExport, "neon")
	if err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Errorf("Expected unknown theme error, got %v", err)
	}
}

func TestRunThemeInfo(t *testing.T) {
	setupConfigDir(t)

	out, err := run(t, runThemeInfo, "gruvbox")
	if err != nil {
		t.Fatalf("runThemeInfo() error = %v", err)
	}
	for _, want := range []string{"Theme: gruvbox", "Type: Built-in", "highlight", "#FABD2F"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunThemeCheck(t *testing.T) {
	out, err := run(t, runThemeCheck, writeTheme(t, testTheme))
	if err != nil {
		t.Fatalf("runThemeCheck() error = %v", err)
	}
	if !strings.Contains(out, `"paper" is valid`) {
		t.Errorf("unexpected output %q", out)
	}

	bad := strings.Replace(testTheme, `"#A78BFA"`, `"purple"`, 1)
	if _, err := run(t, runThemeCheck, writeTheme(t, bad)); err == nil {
		t.Error("Expected error for invalid color")
	}
}
