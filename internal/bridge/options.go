package bridge

import (
	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/viewer"
)

// Option configures an Element.
type Option func(*options)

type options struct {
	logger        *logging.Logger
	post          plugin.Scheduler
	engine        engine.Engine
	loader        *engine.Loader
	metrics       *metrics.Collectors
	events        *event.Bus
	blueprint     func(*logging.Logger) (*viewer.Blueprint, error)
	onInitialized func(Session)
	documentView  func(s Session, width, height int) string
	pluginConfig  plugin.Config
	clipboard     plugin.Clipboard
	environment   Environment
	definitions   *Definitions
}

func defaultOptions() options {
	return options{
		logger:       logging.NopLogger(),
		post:         plugin.Inline,
		blueprint:    viewer.New,
		pluginConfig: plugin.DefaultConfig(),
		environment:  TerminalEnvironment{},
		definitions:  DefaultDefinitions,
	}
}

// WithLogger sets the logger for the element.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScheduler sets how load completions and plugin continuations reach
// the host's UI thread. The default runs them inline.
func WithScheduler(s plugin.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.post = s
		}
	}
}

// WithEngine loads documents through e.
func WithEngine(e engine.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithLoader shares a loader between elements.
func WithLoader(l *engine.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithMetrics records lifecycle and projection metrics.
func WithMetrics(c *metrics.Collectors) Option {
	return func(o *options) { o.metrics = c }
}

// WithEvents publishes lifecycle events on bus.
func WithEvents(bus *event.Bus) Option {
	return func(o *options) { o.events = bus }
}

// WithBlueprint replaces the viewer declarations.
func WithBlueprint(fn func(*logging.Logger) (*viewer.Blueprint, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.blueprint = fn
		}
	}
}

// WithOnInitialized runs fn once per mount after the document loaded and the
// plugins booted, before the element reports ready. Renderers are
// registered here.
func WithOnInitialized(fn func(Session)) Option {
	return func(o *options) { o.onInitialized = fn }
}

// WithDocumentView renders the document area.
func WithDocumentView(fn func(s Session, width, height int) string) Option {
	return func(o *options) { o.documentView = fn }
}

// WithPluginConfig sets the plugin configuration for every mount.
func WithPluginConfig(cfg plugin.Config) Option {
	return func(o *options) { o.pluginConfig = cfg }
}

// WithClipboard overrides the clipboard used by the selection plugin.
func WithClipboard(c plugin.Clipboard) Option {
	return func(o *options) { o.clipboard = c }
}

// WithEnvironment overrides the environment check used by Init.
func WithEnvironment(env Environment) Option {
	return func(o *options) {
		if env != nil {
			o.environment = env
		}
	}
}

// WithDefinitions uses defs instead of DefaultDefinitions.
func WithDefinitions(defs *Definitions) Option {
	return func(o *options) {
		if defs != nil {
			o.definitions = defs
		}
	}
}
