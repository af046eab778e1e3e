package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/pdfcontainer/internal/config"
)

// setupConfigDir points the config directory at a temp dir and resets viper.
func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	if err := appconfig.Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return filepath.Join(dir, "pdfcontainer")
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetErr(&buf)
	err := fn(c, args)
	return buf.String(), err
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr string
	}{
		{"document.url", "https://example.com/a.pdf", "https://example.com/a.pdf", ""},
		{"tui.theme", "nord", "nord", ""},
		{"tui.theme", "neon", nil, "invalid theme"},
		{"tui.sidebar_width", "30", 30, ""},
		{"tui.sidebar_width", "4", nil, "must be between"},
		{"tui.panel_width", "wide", nil, "expected integer"},
		{"thumbnail.gap", "-1", nil, "must be non-negative"},
		{"logging.enabled", "true", true, ""},
		{"logging.enabled", "yes", nil, "expected true or false"},
		{"logging.level", "debug", "debug", ""},
		{"logging.level", "trace", nil, "invalid value"},
		{"zoom.default_level", "fit-width", "fit-width", ""},
		{"zoom.default_level", "1.5", "1.5", ""},
		{"zoom.default_level", "-2", nil, "positive number"},
		{"scroll.strategy", "horizontal", "horizontal", ""},
		{"scroll.strategy", "diagonal", nil, "invalid value"},
		{"no.such.key", "x", nil, "unknown configuration key"},
		{"tui.them", "nord", nil, "Did you mean tui.theme?"},
		{"tui.theme", "nordd", nil, "Did you mean nord?"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := ParseValue(tt.key, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseValue() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestDidYouMean(t *testing.T) {
	candidates := []string{"scroll.strategy", "export.dir", "metrics.addr"}
	if got := didYouMean("scroll.stratgy", candidates); got != "\nDid you mean scroll.strategy?" {
		t.Errorf("Expected scroll.strategy suggestion, got %q", got)
	}
	if got := didYouMean("document.title", candidates); got != "" {
		t.Errorf("Expected no suggestion, got %q", got)
	}
}

func TestRunConfigInit(t *testing.T) {
	dir := setupConfigDir(t)

	out, err := run(t, runConfigInit)
	if err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(out, "Created config file") {
		t.Errorf("Expected confirmation, got %q", out)
	}

	path := filepath.Join(dir, "config.yaml")
	cfg, err := appconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.TUI.Theme != "default" {
		t.Errorf("Expected theme default, got %q", cfg.TUI.Theme)
	}

	if _, err := run(t, runConfigInit); err == nil {
		t.Error("Expected error when the config file already exists")
	}
}

func TestRunConfigSet(t *testing.T) {
	dir := setupConfigDir(t)

	out, err := run(t, runConfigSet, "tui.theme", "dracula")
	if err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if !strings.Contains(out, "Set tui.theme = dracula") {
		t.Errorf("unexpected output %q", out)
	}

	cfg, err := appconfig.LoadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.TUI.Theme != "dracula" {
		t.Errorf("Expected theme dracula, got %q", cfg.TUI.Theme)
	}
}

func TestRunConfigSet_Invalid(t *testing.T) {
	dir := setupConfigDir(t)

	if _, err := run(t, runConfigSet, "scroll.strategy", "diagonal"); err == nil {
		t.Fatal("Expected error for invalid strategy")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Error("config file should not be written for an invalid value")
	}
}

func TestRunConfigShow(t *testing.T) {
	setupConfigDir(t)

	out, err := run(t, runConfigShow)
	if err != nil {
		t.Fatalf("runConfigShow() error = %v", err)
	}
	for _, want := range []string{
		"Config file: (none - using defaults)",
		"url: https://snippet.embedpdf.com/ebook.pdf",
		"theme: default",
		"default_level: fit-page",
		"strategy: vertical",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConfigPath(t *testing.T) {
	dir := setupConfigDir(t)

	out, err := run(t, runConfigPath)
	if err != nil {
		t.Fatalf("runConfigPath() error = %v", err)
	}
	if !strings.Contains(out, filepath.Join(dir, "config.yaml")) {
		t.Errorf("Expected default path in output, got %q", out)
	}
}

func TestRunConfigValidate(t *testing.T) {
	setupConfigDir(t)

	viper.Set("scroll.strategy", "diagonal")
	if _, err := run(t, runConfigValidate); err == nil {
		t.Error("Expected validation error")
	}

	viper.Set("scroll.strategy", "vertical")
	out, err := run(t, runConfigValidate)
	if err != nil {
		t.Fatalf("runConfigValidate() error = %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRegister(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	Register(root)

	c, _, err := root.Find([]string{"config", "theme", "export"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if c.Name() != "export" {
		t.Errorf("Expected export command, got %q", c.Name())
	}
}
