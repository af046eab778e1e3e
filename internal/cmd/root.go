package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdconfig "github.com/Iron-Ham/pdfcontainer/internal/cmd/config"
	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pdfcontainer [url]",
	Short: "Terminal PDF viewer",
	Long: `pdfcontainer opens a PDF document in a terminal viewer with page
navigation, zoom, full-text search, text selection and highlight
annotations.

The document is an http(s) URL or a local path. Without an argument the
document.url setting is opened.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runView,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/pdfcontainer/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	addViewFlags(rootCmd)
	cmdconfig.Register(rootCmd)
}

func initConfig() {
	if err := config.Init(viper.GetString("config")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reading config: %v\n", err)
	}
}

// LogDir returns the directory debug.log is written to. The viewer owns the
// terminal, so an unset logging.dir falls back to the config directory.
func LogDir(cfg config.LoggingConfig) string {
	if cfg.Dir != "" {
		return cfg.Dir
	}
	return filepath.Join(config.ConfigDir(), "logs")
}

// newLogger builds the logger for a command. Logging is off unless enabled
// in the config; the returned cleanup closes the log file.
func newLogger(cfg config.LoggingConfig) (*logging.Logger, func(), error) {
	if !cfg.Enabled {
		return logging.NopLogger(), func() {}, nil
	}
	logger, err := logging.NewLogger(LogDir(cfg), cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Close() }, nil
}
