package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [url]",
	Short: "Open a document in the viewer",
	Long: `Open a PDF document in the terminal viewer.

Examples:
  # Open the configured document
  pdfcontainer view

  # Open a local file with the nord theme
  pdfcontainer view report.pdf --theme nord

  # Open a remote document zoomed to 150%
  pdfcontainer view https://example.com/paper.pdf --zoom 1.5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

var (
	viewTheme   string
	viewZoom    string
	viewNoWatch bool
	viewMetrics string
)

func init() {
	rootCmd.AddCommand(viewCmd)
	addViewFlags(viewCmd)
}

func addViewFlags(c *cobra.Command) {
	c.Flags().StringVar(&viewTheme, "theme", "", "Color theme (overrides tui.theme)")
	c.Flags().StringVar(&viewZoom, "zoom", "", "Initial zoom: fit-page, fit-width or a factor like 1.5")
	c.Flags().BoolVar(&viewNoWatch, "no-watch", false, "Do not reload when the config file changes")
	c.Flags().StringVar(&viewMetrics, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

// ResolveSource turns a command line document argument into an element
// source: URLs pass through, local paths become absolute.
func ResolveSource(arg string) string {
	if hasScheme(arg) {
		return arg
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return arg
	}
	return abs
}

func hasScheme(s string) bool {
	for i, r := range s {
		switch {
		case r == ':':
			// A one letter scheme is a Windows drive letter.
			return i > 1
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return false
}

// viewConfig applies the command line to the loaded configuration.
func viewConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		cfg.Document.URL = ResolveSource(args[0])
	}
	if cmd.Flags().Changed("theme") {
		cfg.TUI.Theme, cfg.TUI.ThemeFile = viewTheme, ""
	}
	if cmd.Flags().Changed("zoom") {
		cfg.Zoom.DefaultLevel = viewZoom
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Enabled, cfg.Metrics.Addr = true, viewMetrics
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, config.ValidationErrors(errs)
	}
	return cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := viewConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	bus := event.NewBus(logger)
	defer bus.Clear()
	unsubscribe := bus.SubscribeAll(func(ev event.Event) {
		logger.Debug("element event", "type", ev.EventType())
	})
	defer unsubscribe()

	opts := []tui.Option{tui.WithEvents(bus)}

	if cfg.Metrics.Enabled {
		collectors := metrics.New()
		srv := metrics.NewServer(collectors, cfg.Metrics.Addr, logger)
		addr, err := srv.Start()
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		logger.Info("serving metrics", "addr", addr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		opts = append(opts, tui.WithMetrics(collectors))
	}

	// A document given on the command line is not replaced by reloads.
	if path := viper.ConfigFileUsed(); path != "" && !viewNoWatch && len(args) == 0 {
		opts = append(opts, tui.WithConfigWatch(path))
	}

	app, err := tui.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Run(ctx)
}
