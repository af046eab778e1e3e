package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/layout"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/projector"
	"github.com/Iron-Ham/pdfcontainer/internal/viewer"
)

// Element is one viewer instance attached to a host.
type Element struct {
	opts   options
	logger *logging.Logger

	host atomic.Pointer[hostRef]

	mu        sync.Mutex
	cfg       Config
	cfgSet    bool
	attrURL   string
	connected bool
	ctx       context.Context
	cancel    context.CancelFunc

	scope      *Scope
	current    *mount
	generation uint64
	status     Status
	err        error
	width      int
	height     int
	mounts     int
	unmounts   int

	wg sync.WaitGroup
}

type hostRef struct{ Host }

// mount is everything one generation owns.
type mount struct {
	gen       uint64
	source    string
	store     *store.Store
	runtime   *plugin.Runtime
	blueprint *viewer.Blueprint
	tree      *component.Tree
	projector *projector.Projector
	cancel    context.CancelFunc

	mu     sync.Mutex
	closed bool
	doc    *engine.Document
}

// NewElement creates an unconnected element.
func NewElement(opts ...Option) *Element {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		eng := o.engine
		if eng == nil {
			eng = engine.NewPDFKit(engine.WithEngineLogger(o.logger))
		}
		o.loader = engine.NewLoader(eng, o.logger)
	}
	return &Element{
		opts:   o,
		logger: o.logger.WithComponent("element"),
		status: StatusIdle,
	}
}

// SetConfig assigns the configuration property. On a connected element it
// remounts like Reconfigure.
func (e *Element) SetConfig(cfg Config) {
	e.Reconfigure(cfg)
}

// Config returns the configuration the element mounts with: the assigned
// property, else the url attribute, else DefaultConfig.
func (e *Element) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effectiveConfig()
}

func (e *Element) effectiveConfig() Config {
	switch {
	case e.cfgSet:
		return e.cfg
	case e.attrURL != "":
		return Config{URL: e.attrURL}
	default:
		return DefaultConfig()
	}
}

// SetAttribute sets an attribute. Only "url" is recognized; it is used when
// no configuration property has been assigned.
func (e *Element) SetAttribute(name, value string) {
	if name != "url" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrURL = value
	if e.connected && !e.cfgSet {
		e.unmountLocked()
		e.mountLocked()
	}
}

// Connect attaches the element to host and mounts it. Connecting an already
// connected element does nothing.
func (e *Element) Connect(ctx context.Context, host Host) error {
	if host == nil || !host.Attached() {
		return errors.ErrDisconnected
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.connected {
		return nil
	}
	e.host.Store(&hostRef{host})
	e.connected = true
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.scope = NewScope()
	e.mountLocked()
	return nil
}

// Reconfigure replaces the configuration. A connected element synchronously
// unmounts its current tree and mounts a new one.
func (e *Element) Reconfigure(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg, e.cfgSet = cfg, true
	if !e.connected {
		return
	}
	e.unmountLocked()
	e.mountLocked()
}

// Disconnect unmounts the element, releases its scope and waits for loads
// in flight to stop.
func (e *Element) Disconnect() {
	e.mu.Lock()
	if !e.connected {
		e.mu.Unlock()
		return
	}
	e.unmountLocked()
	e.connected = false
	e.cancel()
	e.scope.Release()
	e.status = StatusIdle
	e.err = nil
	e.mu.Unlock()

	e.wg.Wait()
}

// Connected reports whether the element is connected.
func (e *Element) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// Status returns the load status and, when failed, the cause.
func (e *Element) Status() (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status, e.err
}

// Stats returns the lifecycle counters.
func (e *Element) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Stats{Mounts: e.mounts, Unmounts: e.unmounts, Generation: e.generation}
	if e.current != nil {
		s.Subscriptions = e.current.store.SubscriptionCount()
	}
	return s
}

// Scope returns the element's scope, nil before Connect.
func (e *Element) Scope() *Scope {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scope
}

// Session returns the ready mount.
func (e *Element) Session() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusReady || e.current == nil {
		return Session{}, false
	}
	return e.sessionLocked(e.current), true
}

func (e *Element) sessionLocked(m *mount) Session {
	m.mu.Lock()
	doc := m.doc
	m.mu.Unlock()
	return Session{
		Generation: m.gen,
		Document:   doc,
		Runtime:    m.runtime,
		Commands:   m.blueprint.Commands,
		Renderer:   e.scope.Renderer(),
	}
}

// Trigger runs a command as if the user activated it.
func (e *Element) Trigger(commandID string, origin command.Origin) error {
	s, ok := e.Session()
	if !ok {
		return errors.ErrNotReady
	}
	err := s.Commands.Trigger(commandID, s.Runtime, s.Runtime.Store().Snapshot(), origin)
	if err == nil {
		e.opts.metrics.CommandInvoked(commandID)
		e.publish(event.NewCommandInvokedEvent(commandID))
	}
	return err
}

// Resize records the size the element renders at.
func (e *Element) Resize(width, height int) {
	e.mu.Lock()
	e.width, e.height = width, height
	m := e.current
	e.mu.Unlock()
	if m == nil {
		return
	}
	if vp, ok := plugin.Get[*plugin.Viewport](m.runtime, store.ViewportPlugin); ok {
		vp.SetSize(width, height)
	}
}

func (e *Element) mountLocked() {
	e.generation++
	gen := e.generation
	cfg := e.effectiveConfig()
	logger := e.opts.logger.WithElement(TagName, gen)

	bp, err := e.opts.blueprint(logger)
	if err != nil {
		e.status, e.err = StatusFailed, err
		logger.Error("viewer declarations are invalid", "error", err)
		return
	}

	st := store.New(logger)
	rtOpts := []plugin.Option{
		plugin.WithLogger(logger),
		plugin.WithScheduler(e.opts.post),
		plugin.WithRenderers(component.NewTable(logger)),
	}
	if e.opts.clipboard != nil {
		rtOpts = append(rtOpts, plugin.WithClipboard(e.opts.clipboard))
	}
	tree := component.NewTree(bp.Components, logger)
	m := &mount{
		gen:       gen,
		source:    cfg.URL,
		store:     st,
		runtime:   plugin.New(st, rtOpts...),
		blueprint: bp,
		tree:      tree,
		projector: projector.New(tree,
			projector.WithLogger(logger),
			projector.WithMetrics(e.opts.metrics),
			projector.WithEvents(e.opts.events),
			projector.OnPass(func(projector.Result) {
				e.opts.metrics.SetSubscriptions(st.SubscriptionCount())
				e.invalidate()
			}),
		),
	}

	ctx, cancel := context.WithCancel(e.ctx)
	m.cancel = cancel
	e.current = m
	e.status, e.err = StatusLoading, nil
	e.mounts++
	e.opts.metrics.Mounted()
	e.publish(event.NewElementMountedEvent(TagName, cfg.URL, gen))
	logger.Info("element mounted", "source", cfg.URL)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		doc, err := e.opts.loader.Load(ctx, cfg.URL)
		if ctx.Err() != nil {
			return
		}
		e.opts.post(func() { e.finishLoad(m, doc, err) })
	}()
}

func (e *Element) unmountLocked() {
	m := e.current
	if m == nil {
		return
	}
	e.current = nil
	m.cancel()

	m.mu.Lock()
	m.closed = true
	m.projector.Detach()
	m.tree.Clear()
	m.runtime.Teardown()
	m.mu.Unlock()

	e.unmounts++
	e.opts.metrics.Unmounted()
	e.opts.metrics.SetSubscriptions(0)
	e.publish(event.NewElementUnmountedEvent(TagName, m.gen))
	e.logger.Debug("element unmounted", "generation", m.gen)
}

// finishLoad boots the plugins for m once its document is available. It runs
// on the host's UI thread and is ignored when m is no longer current.
func (e *Element) finishLoad(m *mount, doc *engine.Document, err error) {
	if !e.isCurrent(m) {
		e.logger.Debug("dropping stale load", "generation", m.gen)
		return
	}

	if err != nil {
		e.mu.Lock()
		if e.current == m {
			e.status, e.err = StatusFailed, err
		}
		e.mu.Unlock()
		e.opts.metrics.EngineLoad("failure")
		e.publish(event.NewEngineFailedEvent(m.source, err, m.gen))
		e.logger.Warn("document load failed", "source", m.source, "error", err)
		e.invalidate()
		return
	}

	e.mu.Lock()
	w, h := e.width, e.height
	e.mu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.doc = doc
	m.runtime.Boot(doc, e.opts.pluginConfig)
	if vp, ok := plugin.Get[*plugin.Viewport](m.runtime, store.ViewportPlugin); ok {
		vp.SetSize(w, h)
	}
	m.mu.Unlock()

	e.mu.Lock()
	if e.current != m {
		e.mu.Unlock()
		return
	}
	session := e.sessionLocked(m)
	e.mu.Unlock()

	if e.opts.onInitialized != nil {
		e.opts.onInitialized(session)
	}

	m.mu.Lock()
	if !m.closed {
		m.projector.Attach(m.store)
	}
	m.mu.Unlock()

	e.mu.Lock()
	if e.current == m {
		e.status = StatusReady
	}
	e.mu.Unlock()

	e.opts.metrics.EngineLoad("success")
	e.publish(event.NewEngineReadyEvent(m.source, doc.PageCount(), m.gen))
	e.logger.Info("document ready", "source", m.source, "pages", doc.PageCount())
	e.invalidate()
}

func (e *Element) isCurrent(m *mount) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected && e.current == m
}

// invalidate asks the host to redraw. It takes no element lock, so it is
// safe from inside projection passes.
func (e *Element) invalidate() {
	ref := e.host.Load()
	if ref == nil {
		return
	}
	if inv, ok := ref.Host.(Invalidator); ok {
		inv.Invalidate()
	}
}

func (e *Element) publish(ev event.Event) {
	if e.opts.events != nil {
		e.opts.events.Publish(ev)
	}
}

// Render draws the element at width x height into its scope and returns the
// output. A disconnected element renders nothing.
func (e *Element) Render(width, height int) string {
	e.mu.Lock()
	if !e.connected {
		e.mu.Unlock()
		return ""
	}
	scope, status, err, m := e.scope, e.status, e.err, e.current
	e.mu.Unlock()

	var out string
	switch status {
	case StatusReady:
		out = e.compose(scope.Renderer(), m, width, height)
	case StatusFailed:
		out = failedPanel(scope.Renderer(), err, width, height)
	default:
		out = placeholder(scope.Renderer(), "Loading PDF document...", width, height)
	}
	scope.Replace(out)
	return out
}

func (e *Element) compose(r *lipgloss.Renderer, m *mount, width, height int) string {
	regions := layout.Resolve(m.tree)
	walker := component.Walker{
		Tree:   m.tree,
		Table:  m.runtime.Renderers(),
		Width:  width,
		Height: height,
		OnError: func(err error) {
			e.opts.metrics.NodeFailed("render")
			var nodeErr *errors.NodeError
			if errors.As(err, &nodeErr) {
				e.publish(event.NewNodeFailedEvent(nodeErr.NodeID, nodeErr.Stage, err))
			}
		},
	}
	renderAll := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s := walker.Render(id); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	f := layout.Frame{
		Width:           width,
		Height:          height,
		Headers:         make(map[layout.Placement][]string),
		LeftPanels:      renderAll(regions.Panels[layout.Left]),
		RightPanels:     renderAll(regions.Panels[layout.Right]),
		InsideScroller:  renderAll(regions.InsideScroller),
		OutsideScroller: renderAll(regions.OutsideScroller),
		CommandMenu:     strings.Join(renderAll(regions.CommandMenu), "\n"),
		MenuColumn:      2,
	}
	for p, ids := range regions.Headers {
		f.Headers[p] = renderAll(ids)
	}

	docW, docH := layout.ViewportSize(f)

	m.mu.Lock()
	doc := m.doc
	m.mu.Unlock()
	session := Session{Generation: m.gen, Document: doc, Runtime: m.runtime, Commands: m.blueprint.Commands, Renderer: r}
	if e.opts.documentView != nil {
		f.Document = e.opts.documentView(session, docW, docH)
	} else {
		f.Document = defaultDocumentView(session)
	}
	return layout.Compose(r, f)
}

func defaultDocumentView(s Session) string {
	if s.Document == nil {
		return ""
	}
	sc, _ := store.Slice[store.ScrollState](s.Runtime.Store().Snapshot(), store.ScrollPlugin)
	page := max(sc.CurrentPage-1, 0)
	return fmt.Sprintf("Page %s of %d\n\n%s", s.Document.Label(page), s.Document.PageCount(), s.Document.Text(page))
}

func placeholder(r *lipgloss.Renderer, text string, width, height int) string {
	return r.NewStyle().
		Width(max(width, 1)).Height(max(height, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}

func failedPanel(r *lipgloss.Renderer, err error, width, height int) string {
	msg := "Failed to load document"
	if err != nil {
		msg += "\n\n" + err.Error()
	}
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#e44234")).
		Padding(0, 1).
		MaxWidth(max(width, 1)).
		Render(msg)
	return r.NewStyle().
		Width(max(width, 1)).Height(max(height, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}
