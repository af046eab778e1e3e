package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
)

// Config represents the complete pdfcontainer configuration
type Config struct {
	Document  DocumentConfig  `mapstructure:"document"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Zoom      ZoomConfig      `mapstructure:"zoom"`
	Scroll    ScrollConfig    `mapstructure:"scroll"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	Export    ExportConfig    `mapstructure:"export"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// DocumentConfig selects the document the viewer opens
type DocumentConfig struct {
	// URL is an http(s) URL or a local path
	URL string `mapstructure:"url"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is a built-in theme name or the name of a loaded theme file
	Theme string `mapstructure:"theme"`
	// ThemeFile is an optional YAML theme to load at startup
	ThemeFile string `mapstructure:"theme_file"`
	// SidebarWidth is the width of the left panel in columns
	SidebarWidth int `mapstructure:"sidebar_width"`
	// PanelWidth is the width of the right panel in columns
	PanelWidth int `mapstructure:"panel_width"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written; empty logs to stderr when enabled
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// ZoomConfig configures the zoom plugin
type ZoomConfig struct {
	// DefaultLevel is "fit-page", "fit-width" or a numeric factor like "1.25"
	DefaultLevel string    `mapstructure:"default_level"`
	Levels       []float64 `mapstructure:"levels"`
}

// ScrollConfig configures the scroll plugin
type ScrollConfig struct {
	// Strategy is "vertical" or "horizontal"
	Strategy string `mapstructure:"strategy"`
}

// ThumbnailConfig configures the thumbnail strip
type ThumbnailConfig struct {
	Width int `mapstructure:"width"`
	Gap   int `mapstructure:"gap"`
}

// ExportConfig configures the download command
type ExportConfig struct {
	// Dir is where downloaded documents are written
	Dir string `mapstructure:"dir"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	p := plugin.DefaultConfig()
	return &Config{
		Document: DocumentConfig{URL: bridge.DefaultURL},
		TUI: TUIConfig{
			Theme:        "default",
			SidebarWidth: 28,
			PanelWidth:   36,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Zoom: ZoomConfig{
			DefaultLevel: p.DefaultZoom,
			Levels:       p.ZoomLevels,
		},
		Scroll:    ScrollConfig{Strategy: p.ScrollStrategy},
		Thumbnail: ThumbnailConfig{Width: p.ThumbnailWidth, Gap: p.ThumbnailGap},
		Export:    ExportConfig{Dir: p.ExportDir},
		Metrics:   MetricsConfig{Addr: "127.0.0.1:9464"},
	}
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("document.url", defaults.Document.URL)

	v.SetDefault("tui.theme", defaults.TUI.Theme)
	v.SetDefault("tui.theme_file", defaults.TUI.ThemeFile)
	v.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)
	v.SetDefault("tui.panel_width", defaults.TUI.PanelWidth)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)

	v.SetDefault("zoom.default_level", defaults.Zoom.DefaultLevel)
	v.SetDefault("zoom.levels", defaults.Zoom.Levels)
	v.SetDefault("scroll.strategy", defaults.Scroll.Strategy)
	v.SetDefault("thumbnail.width", defaults.Thumbnail.Width)
	v.SetDefault("thumbnail.gap", defaults.Thumbnail.Gap)
	v.SetDefault("export.dir", defaults.Export.Dir)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.addr", defaults.Metrics.Addr)
}

// Init prepares the global viper instance: defaults, environment overrides
// with the PDFCONTAINER_ prefix, and the config file at path (or the default
// location when path is empty). A missing config file is not an error.
func Init(path string) error {
	return initViper(viper.GetViper(), path)
}

func initViper(v *viper.Viper, path string) error {
	setDefaults(v)
	v.SetEnvPrefix("PDFCONTAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return load(viper.GetViper())
}

// LoadFile reads and validates the config file at path on a private viper
// instance, leaving the global one untouched.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if err := initViper(v, path); err != nil {
		return nil, err
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when it
// does not load
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Element returns the element configuration for this config.
func (c *Config) Element() bridge.Config {
	return bridge.Config{URL: c.Document.URL}
}

// Plugins returns the plugin configuration for this config.
func (c *Config) Plugins() plugin.Config {
	return plugin.Config{
		DefaultZoom:    c.Zoom.DefaultLevel,
		ZoomLevels:     c.Zoom.Levels,
		ScrollStrategy: c.Scroll.Strategy,
		ThumbnailWidth: c.Thumbnail.Width,
		ThumbnailGap:   c.Thumbnail.Gap,
		ExportDir:      c.Export.Dir,
	}
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pdfcontainer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pdfcontainer"
	}
	return filepath.Join(home, ".config", "pdfcontainer")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
