// Package config provides CLI commands for managing pdfcontainer configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify pdfcontainer configuration",
	Long: `View or modify pdfcontainer configuration.

Without arguments, shows the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  pdfcontainer config set document.url https://example.com/paper.pdf
  pdfcontainer config set tui.theme nord
  pdfcontainer config set zoom.default_level fit-width

Valid keys:
  document.url        - Document to open (http(s) URL or local path)
  tui.theme           - Color theme
  tui.theme_file      - YAML theme loaded at startup
  tui.sidebar_width   - Left panel width in columns
  tui.panel_width     - Right panel width in columns
  logging.enabled     - Write debug.log (true/false)
  logging.level       - Options: debug, info, warn, error
  logging.dir         - Directory for debug.log
  zoom.default_level  - fit-page, fit-width or a factor like 1.25
  scroll.strategy     - Options: vertical, horizontal
  thumbnail.width     - Thumbnail width in columns
  thumbnail.gap       - Gap between thumbnails
  export.dir          - Directory downloads are written to
  metrics.enabled     - Serve Prometheus metrics (true/false)
  metrics.addr        - Metrics listen address`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/pdfcontainer/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKinds maps settable keys to how their value is parsed.
var keyKinds = map[string]string{
	"document.url":       "string",
	"tui.theme":          "theme",
	"tui.theme_file":     "string",
	"tui.sidebar_width":  "width",
	"tui.panel_width":    "width",
	"logging.enabled":    "bool",
	"logging.level":      "level",
	"logging.dir":        "string",
	"zoom.default_level": "zoom",
	"scroll.strategy":    "strategy",
	"thumbnail.width":    "int",
	"thumbnail.gap":      "int",
	"export.dir":         "string",
	"metrics.enabled":    "bool",
	"metrics.addr":       "string",
}

// ParseValue validates value for key and converts it to the type stored in
// the config file.
func ParseValue(key, value string) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		keys := make([]string, 0, len(keyKinds))
		for k := range keyKinds {
			keys = append(keys, k)
		}
		return nil, fmt.Errorf("unknown configuration key: %s%s\nRun 'pdfcontainer config set --help' to see valid keys", key, didYouMean(key, keys))
	}

	switch kind {
	case "theme":
		if !styles.IsValidTheme(value) {
			return nil, fmt.Errorf("invalid theme: %s%s\nValid options: %s",
				value, didYouMean(value, styles.ValidThemes()), strings.Join(styles.ValidThemes(), ", "))
		}
	case "level":
		if !slices.Contains(appconfig.ValidLogLevels(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
	case "strategy":
		if !slices.Contains(appconfig.ValidScrollStrategies(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(appconfig.ValidScrollStrategies(), ", "))
		}
	case "zoom":
		if value != plugin.ZoomModeFitPage && value != plugin.ZoomModeFitWidth {
			if f, err := strconv.ParseFloat(value, 64); err != nil || f <= 0 {
				return nil, fmt.Errorf("invalid value for %s: expected fit-page, fit-width or a positive number", key)
			}
		}
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int", "width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		if kind == "width" && (n < appconfig.MinPanelWidth || n > appconfig.MaxPanelWidth) {
			return nil, fmt.Errorf("invalid value for %s: must be between %d and %d",
				key, appconfig.MinPanelWidth, appconfig.MaxPanelWidth)
		}
		return n, nil
	}
	return value, nil
}

// didYouMean suggests the candidate closest to s, or returns "" when none
// is within a few edits.
func didYouMean(s string, candidates []string) string {
	slices.Sort(candidates)
	best, bestDist := "", 4
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(s, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("\nDid you mean %s?", best)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	writeConfig(out, cfg)
	return nil
}

func writeConfig(out io.Writer, cfg *appconfig.Config) {
	fmt.Fprintln(out, "document:")
	fmt.Fprintf(out, "  url: %s\n", cfg.Document.URL)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  theme: %s\n", cfg.TUI.Theme)
	if cfg.TUI.ThemeFile != "" {
		fmt.Fprintf(out, "  theme_file: %s\n", cfg.TUI.ThemeFile)
	}
	fmt.Fprintf(out, "  sidebar_width: %d\n", cfg.TUI.SidebarWidth)
	fmt.Fprintf(out, "  panel_width: %d\n", cfg.TUI.PanelWidth)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.Dir != "" {
		fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.Dir)
	}

	fmt.Fprintln(out, "zoom:")
	fmt.Fprintf(out, "  default_level: %s\n", cfg.Zoom.DefaultLevel)
	levels := make([]string, len(cfg.Zoom.Levels))
	for i, l := range cfg.Zoom.Levels {
		levels[i] = strconv.FormatFloat(l, 'g', -1, 64)
	}
	fmt.Fprintf(out, "  levels: [%s]\n", strings.Join(levels, ", "))

	fmt.Fprintln(out, "scroll:")
	fmt.Fprintf(out, "  strategy: %s\n", cfg.Scroll.Strategy)

	fmt.Fprintln(out, "thumbnail:")
	fmt.Fprintf(out, "  width: %d\n", cfg.Thumbnail.Width)
	fmt.Fprintf(out, "  gap: %d\n", cfg.Thumbnail.Gap)

	fmt.Fprintln(out, "export:")
	fmt.Fprintf(out, "  dir: %s\n", cfg.Export.Dir)

	fmt.Fprintln(out, "metrics:")
	fmt.Fprintf(out, "  enabled: %v\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  addr: %s\n", cfg.Metrics.Addr)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if key == "tui.theme" {
		_ = loadConfiguredTheme()
	}

	typed, err := ParseValue(key, value)
	if err != nil {
		return err
	}

	configDir := appconfig.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typed)

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = appconfig.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typed)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// defaultConfigFile is the commented config written by config init.
const defaultConfigFile = `# pdfcontainer configuration

# Document opened when no URL is given on the command line.
# An http(s) URL or a local path.
document:
  url: https://snippet.embedpdf.com/ebook.pdf

# Terminal UI settings
tui:
  # Theme: default, dracula, nord, gruvbox, solarized-light
  theme: default
  # Optional YAML theme file (see 'pdfcontainer config theme export')
  # theme_file: ~/.config/pdfcontainer/mytheme.yaml
  # Panel widths in columns
  sidebar_width: 28
  panel_width: 36

# Debug logging
logging:
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Directory for debug.log (default: ~/.config/pdfcontainer/logs)
  # dir: /tmp/pdfcontainer

zoom:
  # fit-page, fit-width or a factor like 1.25
  default_level: fit-page
  levels: [0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3, 4]

scroll:
  # Options: vertical, horizontal
  strategy: vertical

thumbnail:
  width: 150
  gap: 10

# Where the download command writes documents
export:
  dir: .

# Prometheus metrics endpoint
metrics:
  enabled: false
  addr: 127.0.0.1:9464
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'pdfcontainer config set' to modify values", configFile)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}
	fmt.Fprintln(out, "\nEnvironment variables: PDFCONTAINER_* (e.g., PDFCONTAINER_TUI_THEME)")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := appconfig.Load(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
	return nil
}
