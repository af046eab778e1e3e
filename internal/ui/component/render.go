package component

import (
	"slices"
	"sync"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

// Rendered is the output of one child node.
type Rendered struct {
	ID     string
	Output string
}

// Frame is what a renderer receives for one node.
type Frame struct {
	ID      string
	Type    Type
	Props   Props
	Context Context
	// Children are the rendered visible children in slot order.
	Children []Rendered
	Width    int
	Height   int
}

// Child returns the rendered output of the child with id.
func (f Frame) Child(id string) (string, bool) {
	for _, c := range f.Children {
		if c.ID == id {
			return c.Output, true
		}
	}
	return "", false
}

// Renderer turns a frame into terminal output.
type Renderer func(f Frame) string

// Table is the renderer-dispatch table keyed by render key.
type Table struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	missing   map[string]bool
	logger    *logging.Logger
}

// NewTable creates an empty dispatch table.
func NewTable(logger *logging.Logger) *Table {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Table{
		renderers: make(map[string]Renderer),
		missing:   make(map[string]bool),
		logger:    logger.WithComponent("renderers"),
	}
}

// Register binds key to r, replacing any previous renderer.
func (t *Table) Register(key string, r Renderer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderers[key] = r
	delete(t.missing, key)
}

// Lookup returns the renderer for key. A miss is logged once per key.
func (t *Table) Lookup(key string) (Renderer, bool) {
	t.mu.RLock()
	r, ok := t.renderers[key]
	t.mu.RUnlock()
	if ok {
		return r, true
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.missing[key] {
		t.missing[key] = true
		t.logger.Debug("no renderer registered", "render_key", key)
	}
	return nil, false
}

// Keys returns the registered keys in sorted order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.renderers))
	for k := range t.renderers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered renderers.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.renderers)
}

// Walker renders mounted subtrees.
type Walker struct {
	Tree   *Tree
	Table  *Table
	Width  int
	Height int
	// OnError, when set, receives every isolated render failure.
	OnError func(error)
}

// Render renders id and its visible mounted descendants. Unmounted, failed
// and renderer-less nodes render as the empty string.
func (w Walker) Render(id string) string {
	inst, ok := w.Tree.Instance(id)
	if !ok || inst.Err != nil {
		return ""
	}
	node, ok := w.Tree.Registry().Get(id)
	if !ok {
		return ""
	}

	var children []Rendered
	for _, c := range w.Tree.Registry().VisibleChildren(id, w.Width) {
		if !w.Tree.Mounted(c.ID) {
			continue
		}
		children = append(children, Rendered{ID: c.ID, Output: w.Render(c.ID)})
	}

	r, ok := w.Table.Lookup(node.RenderKey())
	if !ok {
		return ""
	}
	return w.call(r, Frame{
		ID:       id,
		Type:     node.Type,
		Props:    inst.Props,
		Context:  inst.Context,
		Children: children,
		Width:    w.Width,
		Height:   w.Height,
	})
}

func (w Walker) call(r Renderer, f Frame) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			err := errors.NewNodeError(f.ID, "render", errors.PanicError(rec))
			w.Table.logger.Warn("renderer panicked", "node_id", f.ID, "error", err)
			if w.OnError != nil {
				w.OnError(err)
			}
			out = ""
		}
	}()
	return r(f)
}
