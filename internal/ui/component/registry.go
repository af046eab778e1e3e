package component

import (
	"fmt"
	"sort"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

// Child is one resolved slot of a container.
type Child struct {
	ID       string
	Priority int
	// Hidden is true when the slot's visibility class hides it at the
	// width it was resolved for. Hidden children stay mounted.
	Hidden bool
}

type entry struct {
	node Node
	// slots are the resolvable slots in render order.
	slots      []Slot
	visibility []Visibility
}

// Registry holds validated node descriptors keyed by id.
type Registry struct {
	entries map[string]*entry
	order   []string
	roots   []string
	logger  *logging.Logger
}

type registryOptions struct {
	logger     *logging.Logger
	renderKeys map[string]bool
	lenient    bool
}

// Option configures a Registry.
type Option func(*registryOptions)

// WithLogger sets the registry logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *registryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRenderKeys enables render key validation: every node's RenderKey must
// be one of keys.
func WithRenderKeys(keys ...string) Option {
	return func(o *registryOptions) {
		o.renderKeys = make(map[string]bool, len(keys))
		for _, k := range keys {
			o.renderKeys[k] = true
		}
	}
}

// AllowUnresolvedSlots drops slots that reference unknown nodes with a
// warning instead of failing construction.
func AllowUnresolvedSlots() Option {
	return func(o *registryOptions) { o.lenient = true }
}

// NewRegistry validates nodes and builds a Registry. All integrity faults are
// reported together as joined ConfigurationErrors.
func NewRegistry(nodes []Node, opts ...Option) (*Registry, error) {
	o := registryOptions{logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		entries: make(map[string]*entry, len(nodes)),
		logger:  o.logger.WithComponent("component-registry"),
	}

	var errs []error
	for _, n := range nodes {
		if n.ID == "" {
			errs = append(errs, errors.NewConfigurationError(errors.KindDuplicateID, "", "").WithMessage("empty node id"))
			continue
		}
		if _, dup := r.entries[n.ID]; dup {
			errs = append(errs, errors.NewConfigurationError(errors.KindDuplicateID, n.ID, ""))
			continue
		}
		if o.renderKeys != nil && !o.renderKeys[n.RenderKey()] {
			errs = append(errs, errors.NewConfigurationError(errors.KindUnknownType, n.ID, n.RenderKey()))
		}
		r.entries[n.ID] = &entry{node: n}
		r.order = append(r.order, n.ID)
	}

	referenced := make(map[string]bool)
	for _, id := range r.order {
		e := r.entries[id]
		idx := make([]int, 0, len(e.node.Slots))
		for i, s := range e.node.Slots {
			if _, ok := r.entries[s.ComponentID]; !ok {
				if o.lenient {
					r.logger.Warn("dropping unresolved slot", "node_id", id, "component_id", s.ComponentID)
					continue
				}
				errs = append(errs, errors.NewConfigurationError(errors.KindUnresolvedSlot, id, s.ComponentID))
				continue
			}
			if _, err := ParseVisibility(s.Visibility); err != nil {
				errs = append(errs, errors.NewConfigurationError(errors.KindInvalidVisibility, id, s.ComponentID).WithMessage(err.Error()))
				continue
			}
			idx = append(idx, i)
			referenced[s.ComponentID] = true
		}

		sort.SliceStable(idx, func(a, b int) bool {
			return e.node.Slots[idx[a]].Priority < e.node.Slots[idx[b]].Priority
		})
		for _, i := range idx {
			s := e.node.Slots[i]
			vis, _ := ParseVisibility(s.Visibility)
			e.slots = append(e.slots, s)
			e.visibility = append(e.visibility, vis)
		}
	}

	for _, id := range r.order {
		if !referenced[id] {
			r.roots = append(r.roots, id)
		}
	}
	if len(errs) == 0 {
		errs = append(errs, r.checkCycles()...)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// checkCycles reports containers that can reach themselves through slots.
func (r *Registry) checkCycles() []error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(r.entries))
	var errs []error

	var visit func(id string)
	visit = func(id string) {
		marks[id] = visiting
		for _, s := range r.entries[id].slots {
			switch marks[s.ComponentID] {
			case visiting:
				errs = append(errs, errors.NewConfigurationError(errors.KindUnresolvedSlot, id, s.ComponentID).WithMessage("slot cycle"))
			case unvisited:
				visit(s.ComponentID)
			}
		}
		marks[id] = done
	}
	for _, id := range r.order {
		if marks[id] == unvisited {
			visit(id)
		}
	}
	return errs
}

// Get returns the node registered under id.
func (r *Registry) Get(id string) (Node, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Node{}, false
	}
	return e.node, true
}

// IDs returns all node ids in declaration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Roots returns the nodes no slot references, in declaration order. These
// are the nodes the layout places into regions.
func (r *Registry) Roots() []string {
	return append([]string(nil), r.roots...)
}

// ResolveChildren returns the node's slots sorted by ascending priority,
// ties kept in declaration order, with Hidden evaluated at width.
func (r *Registry) ResolveChildren(id string, width int) []Child {
	e, ok := r.entries[id]
	if !ok || len(e.slots) == 0 {
		return nil
	}
	out := make([]Child, len(e.slots))
	for i, s := range e.slots {
		out[i] = Child{
			ID:       s.ComponentID,
			Priority: s.Priority,
			Hidden:   !e.visibility[i].Visible(width),
		}
	}
	return out
}

// VisibleChildren is ResolveChildren without the hidden entries.
func (r *Registry) VisibleChildren(id string, width int) []Child {
	all := r.ResolveChildren(id, width)
	out := all[:0]
	for _, c := range all {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// childIDs returns the resolved child ids of id regardless of visibility.
func (r *Registry) childIDs(id string) []string {
	e, ok := r.entries[id]
	if !ok {
		return nil
	}
	ids := make([]string, len(e.slots))
	for i, s := range e.slots {
		ids[i] = s.ComponentID
	}
	return ids
}

func (r *Registry) mustGet(id string) (*Node, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownComponent, id)
	}
	return &e.node, nil
}
