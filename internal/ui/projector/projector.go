// Package projector keeps the mounted component tree in sync with the shared
// state tree. Every state update triggers a pass that walks the tree from its
// roots, mounts newly reachable nodes, recomputes every reachable node's
// props, flags the nodes whose props changed and unmounts nodes that are no
// longer reachable.
package projector

import (
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// Result describes one projection pass.
type Result struct {
	Version uint64
	// Mounted lists nodes mounted during the pass.
	Mounted []string
	// Changed lists nodes whose props changed and need re-rendering,
	// including newly mounted nodes.
	Changed []string
	// Failed lists nodes whose projection failed.
	Failed []string
	// Unmounted lists nodes that became unreachable.
	Unmounted []string
}

// Dirty reports whether anything needs re-rendering.
func (r Result) Dirty() bool {
	return len(r.Changed) > 0 || len(r.Unmounted) > 0
}

// Projector drives projection passes for one component tree.
type Projector struct {
	tree  *component.Tree
	roots []string

	mu          sync.Mutex
	running     bool
	pending     *store.State
	unsubscribe func()
	last        Result

	onPass  func(Result)
	bus     *event.Bus
	metrics *metrics.Collectors
	logger  *logging.Logger
}

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(p *Projector) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records passes on c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(p *Projector) { p.metrics = c }
}

// WithEvents publishes node failures on bus.
func WithEvents(bus *event.Bus) Option {
	return func(p *Projector) { p.bus = bus }
}

// WithRoots overrides the roots a pass starts from. By default the
// registry's roots are used.
func WithRoots(ids ...string) Option {
	return func(p *Projector) { p.roots = append([]string(nil), ids...) }
}

// OnPass registers fn to run after every completed pass.
func OnPass(fn func(Result)) Option {
	return func(p *Projector) { p.onPass = fn }
}

// New creates a projector for tree.
func New(tree *component.Tree, opts ...Option) *Projector {
	p := &Projector{
		tree:   tree,
		roots:  tree.Registry().Roots(),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("projector")
	return p
}

// Attach subscribes to src and runs an initial pass on its snapshot.
// Attaching again replaces the previous subscription.
func (p *Projector) Attach(src store.Tree) Result {
	p.Detach()
	unsubscribe := src.Subscribe(func(s store.State) { p.Pass(s) })
	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()
	return p.Pass(src.Snapshot())
}

// Detach removes the state subscription and drops any queued state.
func (p *Projector) Detach() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.pending = nil
	p.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Attached reports whether the projector holds a subscription.
func (p *Projector) Attached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unsubscribe != nil
}

// Last returns the result of the most recent completed pass.
func (p *Projector) Last() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Pass projects state over the tree. Passes never overlap: a pass requested
// while another is running is queued, only the latest queued state is kept,
// and it runs as soon as the current pass completes. A queued call returns
// an empty Result.
func (p *Projector) Pass(state store.State) Result {
	p.mu.Lock()
	if p.running {
		p.pending = &state
		p.mu.Unlock()
		return Result{}
	}
	p.running = true
	p.mu.Unlock()

	for {
		res := p.run(state)

		p.mu.Lock()
		p.last = res
		p.mu.Unlock()
		if p.onPass != nil {
			p.onPass(res)
		}

		p.mu.Lock()
		if p.pending == nil {
			p.running = false
			p.mu.Unlock()
			return res
		}
		state = *p.pending
		p.pending = nil
		p.mu.Unlock()
	}
}

func (p *Projector) run(state store.State) Result {
	start := time.Now()
	res := Result{Version: state.Version}
	reachable := make(map[string]bool)

	var visit func(id string, inherited component.Context)
	visit = func(id string, inherited component.Context) {
		if reachable[id] {
			return
		}
		reachable[id] = true

		if !p.tree.Mounted(id) {
			_, err := p.tree.Mount(id, state, inherited)
			res.Mounted = append(res.Mounted, id)
			res.Changed = append(res.Changed, id)
			if err != nil {
				p.fail(&res, id, "mount", err)
			}
		} else {
			p.project(&res, id, state, inherited)
		}

		childCtx := p.tree.ChildContext(id)
		for _, child := range p.tree.ChildIDs(id) {
			visit(child, childCtx)
		}
	}
	for _, root := range p.roots {
		visit(root, nil)
	}

	for _, id := range p.tree.IDs() {
		if !reachable[id] && p.tree.Unmount(id) {
			res.Unmounted = append(res.Unmounted, id)
		}
	}

	p.metrics.ObservePass(time.Since(start), len(res.Changed), len(res.Unmounted))
	if len(res.Failed) > 0 || len(res.Unmounted) > 0 {
		p.logger.Debug("projection pass",
			"version", state.Version,
			"changed", len(res.Changed),
			"failed", len(res.Failed),
			"unmounted", len(res.Unmounted),
		)
	}
	return res
}

// project recomputes one mounted node and commits the outcome.
func (p *Projector) project(res *Result, id string, state store.State, inherited component.Context) {
	prev, _ := p.tree.Instance(id)
	props, err := p.tree.Project(id, state)
	if err != nil {
		p.tree.Commit(id, prev.Props, inherited, err)
		if prev.Err == nil {
			res.Changed = append(res.Changed, id)
		}
		p.fail(res, id, "project", err)
		return
	}

	p.tree.Commit(id, props, inherited, nil)
	if prev.Err != nil || !equal(prev.Props, props) || !equal(prev.Context, inherited) {
		res.Changed = append(res.Changed, id)
	}
}

func (p *Projector) fail(res *Result, id, stage string, err error) {
	res.Failed = append(res.Failed, id)
	p.metrics.NodeFailed(stage)
	p.logger.Warn("node projection failed", "node_id", id, "stage", stage, "error", err)
	if p.bus != nil {
		p.bus.Publish(event.NewNodeFailedEvent(id, stage, err))
	}
}

var equateEmpty = cmpopts.EquateEmpty()

// equal compares props or contexts structurally. Values cmp cannot compare
// count as changed.
func equal[T ~map[string]any](a, b T) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = false
		}
	}()
	return cmp.Equal(map[string]any(a), map[string]any(b), equateEmpty)
}
