package component

import (
	"maps"
	"slices"
	"sync"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Instance is a mounted occurrence of a Node.
type Instance struct {
	ID string
	// Local is the local state seeded from the node's InitialState.
	Local map[string]any
	// Base are the props derived from Local before any projection.
	Base Props
	// Props are the last committed render props.
	Props Props
	// Context is the context inherited from the node's ancestors.
	Context Context
	// Err is the last projection failure. A failed node renders nothing
	// until a later projection succeeds.
	Err error
}

// Tree holds the mounted instances of a Registry, keyed by node id.
type Tree struct {
	mu        sync.RWMutex
	reg       *Registry
	instances map[string]*Instance
	logger    *logging.Logger
}

// NewTree creates an empty tree over reg.
func NewTree(reg *Registry, logger *logging.Logger) *Tree {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Tree{
		reg:       reg,
		instances: make(map[string]*Instance),
		logger:    logger.WithComponent("component-tree"),
	}
}

// Registry returns the registry the tree mounts from.
func (t *Tree) Registry() *Registry { return t.reg }

// Mount instantiates id if it is not mounted yet: local state is seeded from
// InitialState, base props are computed and projected against state. An
// already mounted instance is returned unchanged. A failing projection still
// mounts the instance, with Err set.
func (t *Tree) Mount(id string, state store.State, inherited Context) (Instance, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if inst, ok := t.instances[id]; ok {
		return *inst, nil
	}
	node, err := t.reg.mustGet(id)
	if err != nil {
		return Instance{}, err
	}

	inst := &Instance{ID: id, Local: maps.Clone(node.InitialState), Context: inherited}
	inst.Base, err = safeBase(node, inst.Local)
	if err == nil {
		inst.Props, err = safeProject(node, state, inst.Base)
	}
	if err != nil {
		err = errors.NewNodeError(id, "mount", err)
		inst.Err = err
		t.logger.Warn("node mount failed", "node_id", id, "error", err)
	}
	t.instances[id] = inst
	return *inst, err
}

// Project recomputes id's props from state and its base props. It has no
// side effects on the tree; use Commit to store the result.
func (t *Tree) Project(id string, state store.State) (Props, error) {
	t.mu.RLock()
	inst, ok := t.instances[id]
	var base Props
	if ok {
		base = inst.Base
	}
	t.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownComponent, "project %q: not mounted", id)
	}

	node, err := t.reg.mustGet(id)
	if err != nil {
		return nil, err
	}
	props, err := safeProject(node, state, base)
	if err != nil {
		return nil, errors.NewNodeError(id, "project", err)
	}
	return props, nil
}

// Commit stores the outcome of a projection on a mounted instance.
func (t *Tree) Commit(id string, props Props, inherited Context, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	inst, ok := t.instances[id]
	if !ok {
		return
	}
	inst.Err = err
	inst.Context = inherited
	if err == nil {
		inst.Props = props
	}
}

// ChildContext returns the context id hands to its children.
func (t *Tree) ChildContext(id string) Context {
	t.mu.RLock()
	inst, ok := t.instances[id]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	node, err := t.reg.mustGet(id)
	if err != nil {
		return inst.Context
	}
	ctx, cerr := safeChildContext(node, inst.Context, inst.Props)
	if cerr != nil {
		t.logger.Warn("child context failed", "node_id", id, "error", cerr)
		return inst.Context
	}
	return ctx
}

// Unmount removes id. It reports whether the instance existed.
func (t *Tree) Unmount(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.instances[id]; !ok {
		return false
	}
	delete(t.instances, id)
	return true
}

// Instance returns a copy of a mounted instance.
func (t *Tree) Instance(id string) (Instance, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	inst, ok := t.instances[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Mounted reports whether id is mounted.
func (t *Tree) Mounted(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.instances[id]
	return ok
}

// IDs returns the mounted ids in sorted order.
func (t *Tree) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.instances))
	for id := range t.instances {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of mounted instances.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.instances)
}

// Clear unmounts everything.
func (t *Tree) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.instances)
}

// ChildIDs returns the resolved children of id, hidden ones included.
func (t *Tree) ChildIDs(id string) []string {
	return t.reg.childIDs(id)
}

func safeBase(node *Node, local map[string]any) (props Props, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.PanicError(r)
		}
	}()
	return node.baseProps(local), nil
}

func safeProject(node *Node, state store.State, base Props) (props Props, err error) {
	if node.MapStateToProps == nil {
		return maps.Clone(base), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.PanicError(r)
		}
	}()
	return node.MapStateToProps(state, maps.Clone(base)), nil
}

func safeChildContext(node *Node, inherited Context, props Props) (ctx Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.PanicError(r)
		}
	}()
	return node.childContext(inherited, props), nil
}
