package plugin

import (
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// Scheduler runs fn on the UI thread.
type Scheduler func(fn func())

// Inline runs fn immediately on the calling goroutine.
func Inline(fn func()) { fn() }

// Runtime owns the shared state tree for one mounted document and resolves
// capability providers by plugin id.
type Runtime struct {
	store *store.Store

	mu   sync.RWMutex
	caps map[store.PluginID]any
	doc  *engine.Document

	alive     atomic.Bool
	post      Scheduler
	renderers *component.Table
	clipboard Clipboard
	logger    *logging.Logger
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithScheduler sets how asynchronous completions reach the UI thread.
func WithScheduler(s Scheduler) Option {
	return func(rt *Runtime) {
		if s != nil {
			rt.post = s
		}
	}
}

// WithRenderers sets the dispatch table the ui capability registers into.
func WithRenderers(t *component.Table) Option {
	return func(rt *Runtime) { rt.renderers = t }
}

// WithClipboard overrides the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(rt *Runtime) { rt.clipboard = c }
}

// New creates a runtime over st. Capabilities are registered by Boot.
func New(st *store.Store, opts ...Option) *Runtime {
	rt := &Runtime{
		store:     st,
		caps:      make(map[store.PluginID]any),
		post:      Inline,
		clipboard: SystemClipboard{},
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.renderers == nil {
		rt.renderers = component.NewTable(rt.logger)
	}
	rt.logger = rt.logger.WithComponent("plugins")
	rt.alive.Store(true)
	return rt
}

// Store returns the shared state tree.
func (rt *Runtime) Store() *store.Store { return rt.store }

// Renderers returns the renderer-dispatch table.
func (rt *Runtime) Renderers() *component.Table { return rt.renderers }

// Document returns the booted document, or nil before Boot.
func (rt *Runtime) Document() *engine.Document {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.doc
}

// Register binds a capability provider to id.
func (rt *Runtime) Register(id store.PluginID, provider any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.caps[id] = provider
}

// Capability returns the provider for id. ok is false before the plugin
// has booted and after Teardown.
func (rt *Runtime) Capability(id store.PluginID) (any, bool) {
	if !rt.Alive() {
		return nil, false
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	p, ok := rt.caps[id]
	return p, ok
}

// Get returns the provider for id as T.
func Get[T any](rt *Runtime, id store.PluginID) (T, bool) {
	var zero T
	if rt == nil {
		return zero, false
	}
	p, ok := rt.Capability(id)
	if !ok {
		return zero, false
	}
	typed, ok := p.(T)
	return typed, ok
}

// Alive reports whether the runtime has not been torn down.
func (rt *Runtime) Alive() bool { return rt.alive.Load() }

// Teardown drops every capability and closes the state tree. Pending
// continuations that fire afterwards find no capabilities and no-op.
func (rt *Runtime) Teardown() {
	if !rt.alive.CompareAndSwap(true, false) {
		return
	}
	rt.mu.Lock()
	clear(rt.caps)
	rt.doc = nil
	rt.mu.Unlock()
	rt.store.Close()
	rt.logger.Debug("plugin runtime torn down")
}

// Boot registers the ui capability and, when doc is non-nil, every
// document plugin, seeding their state slices.
func (rt *Runtime) Boot(doc *engine.Document, cfg Config) {
	cfg = cfg.withDefaults()

	ui := newUI(rt)
	rt.Register(store.UIPlugin, ui)
	ui.init()

	if doc == nil {
		return
	}
	rt.mu.Lock()
	rt.doc = doc
	rt.mu.Unlock()

	rt.store.UpdateCore(func(prev store.CoreState) store.CoreState {
		info := doc.Info()
		return store.CoreState{Document: &info, Scale: 1, Loaded: true}
	})

	history := newHistory(rt)
	rt.Register(store.HistoryPlugin, history)
	history.publish()

	viewport := &Viewport{rt: rt}
	rt.Register(store.ViewportPlugin, viewport)
	store.UpdateSlice(rt.store, store.ViewportPlugin, func(store.ViewportState) store.ViewportState {
		return store.ViewportState{}
	})

	scroll := &Scroll{rt: rt}
	rt.Register(store.ScrollPlugin, scroll)
	scroll.init(doc.PageCount(), cfg.ScrollStrategy)

	zoom := &Zoom{rt: rt, levels: cfg.ZoomLevels}
	rt.Register(store.ZoomPlugin, zoom)
	zoom.init(cfg.DefaultZoom)

	rt.Register(store.SearchPlugin, &Search{rt: rt})
	store.UpdateSlice(rt.store, store.SearchPlugin, func(store.SearchState) store.SearchState {
		return store.SearchState{ActiveResultIndex: -1}
	})

	rt.Register(store.SelectionPlugin, &Selection{rt: rt})
	store.UpdateSlice(rt.store, store.SelectionPlugin, func(store.SelectionState) store.SelectionState {
		return store.SelectionState{}
	})

	annotation := &Annotation{rt: rt}
	rt.Register(store.AnnotationPlugin, annotation)
	annotation.init(doc)

	rt.Register(store.ExportPlugin, &Export{rt: rt, dir: cfg.ExportDir})
	store.UpdateSlice(rt.store, store.ExportPlugin, func(store.ExportState) store.ExportState {
		return store.ExportState{}
	})

	interaction := &Interaction{rt: rt}
	rt.Register(store.InteractionPlugin, interaction)
	interaction.ActivateMode(ModePointer)

	rt.logger.Info("plugins booted", "document", doc.Name, "pages", doc.PageCount())
}

// update applies fn to a slice if the runtime is alive.
func update[T any](rt *Runtime, id store.PluginID, fn func(prev T) T) {
	if !rt.Alive() {
		return
	}
	store.UpdateSlice(rt.store, id, fn)
}

// slice reads a slice from the current snapshot.
func slice[T any](rt *Runtime, id store.PluginID) T {
	v, _ := store.Slice[T](rt.store.Snapshot(), id)
	return v
}
