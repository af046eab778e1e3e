package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	appconfig "github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the viewer.

Besides the built-in themes, a YAML theme file can be loaded with
tui.theme_file. Use 'theme export' to get a starting point for one.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  pdfcontainer config theme export default              # Print default theme to stdout
  pdfcontainer config theme export nord my-theme.yaml   # Save nord theme to file`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themeInfoCmd = &cobra.Command{
	Use:   "info <theme-name>",
	Short: "Show information about a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeInfo,
}

var themeCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a theme file",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeCheck,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themeInfoCmd)
	themeCmd.AddCommand(themeCheckCmd)
	configCmd.AddCommand(themeCmd)
}

// loadConfiguredTheme registers the theme file named by tui.theme_file so
// it shows up next to the built-in themes. Load errors are returned, not
// fatal.
func loadConfiguredTheme() error {
	cfg := appconfig.Get()
	if cfg.TUI.ThemeFile == "" {
		return nil
	}
	theme, err := styles.LoadThemeFile(cfg.TUI.ThemeFile)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.TUI.ThemeFile, err)
	}
	styles.RegisterCustomTheme(theme)
	return nil
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if err := loadConfiguredTheme(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: theme file failed to load: %v\n\n", err)
	}

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	if custom := styles.CustomThemeNames(); len(custom) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom themes:")
		for _, name := range custom {
			theme := styles.GetCustomTheme(styles.ThemeName(name))
			if theme != nil && theme.Author != "" {
				fmt.Fprintf(out, "  - %s (by %s)\n", name, theme.Author)
			} else {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
	}
	return nil
}

func unknownTheme(name string, loadErr error) error {
	if loadErr != nil {
		return fmt.Errorf("unknown theme: %s\n\nThe configured theme file failed to load: %v", name, loadErr)
	}
	return fmt.Errorf("unknown theme: %s%s\n\nRun 'pdfcontainer config theme list' to see available themes", name, didYouMean(name, styles.ValidThemes()))
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	name := args[0]
	loadErr := loadConfiguredTheme()
	if !styles.IsValidTheme(name) {
		return unknownTheme(name, loadErr)
	}

	data, err := styles.ExportTheme(styles.ThemeName(name))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		outputPath := args[1]
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runThemeInfo(cmd *cobra.Command, args []string) error {
	name := args[0]
	loadErr := loadConfiguredTheme()
	if !styles.IsValidTheme(name) {
		return unknownTheme(name, loadErr)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme: %s\n\n", name)

	palette := styles.GetPalette(styles.ThemeName(name))
	if slices.Contains(styles.BuiltinThemes(), name) {
		fmt.Fprintln(out, "Type: Built-in")
	} else {
		fmt.Fprintln(out, "Type: Custom")
		theme := styles.GetCustomTheme(styles.ThemeName(name))
		if theme.Author != "" {
			fmt.Fprintf(out, "Author: %s\n", theme.Author)
		}
		if theme.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", theme.Description)
		}
	}

	r := lipgloss.NewRenderer(out)
	swatch := func(label string, c lipgloss.Color) {
		block := r.NewStyle().Background(c).Render("    ")
		fmt.Fprintf(out, "  %-10s %s %s\n", label, block, string(c))
	}
	fmt.Fprintln(out, "\nColors:")
	swatch("primary", palette.Primary)
	swatch("secondary", palette.Secondary)
	swatch("warning", palette.Warning)
	swatch("error", palette.Error)
	swatch("muted", palette.Muted)
	swatch("surface", palette.Surface)
	swatch("text", palette.Text)
	swatch("border", palette.Border)
	swatch("match", palette.MatchBg)
	swatch("current", palette.CurrentBg)
	swatch("highlight", palette.Highlight)
	swatch("underline", palette.Underline)
	return nil
}

func runThemeCheck(cmd *cobra.Command, args []string) error {
	theme, err := styles.LoadThemeFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme %q is valid.\n", theme.Name)
	return nil
}
