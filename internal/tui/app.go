package tui

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/config"
	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

// App wraps the Bubbletea program. It is the host the viewer element is
// attached to: element work is posted onto the program's event loop and
// redraw requests arrive as messages.
type App struct {
	program *tea.Program
	model   *Model
	element *bridge.Element
	cfg     *config.Config
	logger  *logging.Logger
	opts    appOptions

	attached atomic.Bool
	pending  atomic.Bool
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	metrics     *metrics.Collectors
	events      *event.Bus
	engine      engine.Engine
	configPath  string
	environment bridge.Environment
	program     []tea.ProgramOption
}

// WithMetrics records element metrics into c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(o *appOptions) { o.metrics = c }
}

// WithEvents publishes element events on bus.
func WithEvents(bus *event.Bus) Option {
	return func(o *appOptions) { o.events = bus }
}

// WithEngine loads documents through e instead of the default engine.
func WithEngine(e engine.Engine) Option {
	return func(o *appOptions) { o.engine = e }
}

// WithConfigWatch reloads the configuration when the file at path changes.
func WithConfigWatch(path string) Option {
	return func(o *appOptions) { o.configPath = path }
}

// WithEnvironment overrides the terminal check.
func WithEnvironment(env bridge.Environment) Option {
	return func(o *appOptions) { o.environment = env }
}

// WithProgramOptions passes extra options to the Bubbletea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *appOptions) { o.program = append(o.program, opts...) }
}

// New creates a new TUI application for cfg.
func New(cfg *config.Config, logger *logging.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	palette, err := LoadPalette(cfg.TUI)
	if err != nil {
		return nil, err
	}
	return &App{
		model:  NewModel(cfg.TUI, palette, logger),
		cfg:    cfg,
		logger: logger.WithComponent("app"),
		opts:   o,
	}, nil
}

// LoadPalette returns the palette for the configured theme. A theme file
// takes precedence over the theme name and is registered as a custom theme.
func LoadPalette(cfg config.TUIConfig) (*styles.Palette, error) {
	if cfg.ThemeFile == "" {
		return styles.GetPalette(styles.ThemeName(cfg.Theme)), nil
	}
	theme, err := styles.LoadThemeFile(cfg.ThemeFile)
	if err != nil {
		return nil, errors.Wrap(err, "load theme file")
	}
	styles.RegisterCustomTheme(theme)
	return theme.ToPalette(), nil
}

// Attached implements bridge.Host.
func (a *App) Attached() bool { return a.attached.Load() }

// Invalidate implements bridge.Invalidator. Requests made while one is in
// flight are folded into it.
func (a *App) Invalidate() {
	if a.program == nil || !a.pending.CompareAndSwap(false, true) {
		return
	}
	go func() {
		a.program.Send(invalidateMsg{})
		a.pending.Store(false)
	}()
}

// post schedules fn on the program's event loop. Send blocks until the loop
// receives the message, and the loop itself posts work, so it must not be
// called synchronously.
func (a *App) post(fn func()) {
	go a.program.Send(runMsg{fn: fn})
}

// Element returns the hosted element, nil before Run.
func (a *App) Element() *bridge.Element { return a.element }

// Run starts the TUI application and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, a.opts.program...)
	a.program = tea.NewProgram(a.model, progOpts...)
	a.attached.Store(true)

	elOpts := []bridge.Option{
		bridge.WithLogger(a.logger),
		bridge.WithScheduler(a.post),
		bridge.WithPluginConfig(a.cfg.Plugins()),
		bridge.WithMetrics(a.opts.metrics),
		bridge.WithEvents(a.opts.events),
	}
	if a.opts.engine != nil {
		elOpts = append(elOpts, bridge.WithEngine(a.opts.engine))
	}
	if a.opts.environment != nil {
		elOpts = append(elOpts, bridge.WithEnvironment(a.opts.environment))
	}
	elOpts = append(elOpts, a.model.ElementOptions()...)

	a.element = bridge.Init(a.cfg.Element(), a, elOpts...)
	if a.element == nil {
		a.attached.Store(false)
		return errors.ErrEnvironmentUnsupported
	}
	a.model.SetElement(a.element)
	defer a.element.Disconnect()

	if a.opts.configPath != "" {
		w, err := config.Watch(ctx, a.opts.configPath, a.logger, func(cfg *config.Config) {
			a.program.Send(configChangedMsg{cfg: cfg})
		})
		if err != nil {
			a.logger.Warn("config watch disabled", "path", a.opts.configPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	_, err := a.program.Run()
	a.attached.Store(false)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
