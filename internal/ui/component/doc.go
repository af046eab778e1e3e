// Package component implements the declarative UI node registry, the
// slot/priority resolver and the tree of mounted node instances.
//
// A Node is a static descriptor: its type, base props, optional local
// initial state, a projection from the shared state tree to render props,
// child slots and an optional child context. The Registry validates a set of
// nodes once, failing fast on duplicate ids, unresolved slot references and
// unknown renderer keys. A Tree holds the mounted instances keyed by node id;
// instances are created lazily the first time a layout pass reaches them and
// are reused for as long as they stay reachable.
//
// # Slot Resolution
//
// ResolveChildren orders a node's slots by ascending priority, keeping
// declaration order for equal priorities. Slots whose visibility class hides
// them at the current width stay mounted but are marked Hidden, so resizing
// never discards local state:
//
//	for _, child := range reg.ResolveChildren("headerStart", width) {
//		if child.Hidden {
//			continue
//		}
//		...
//	}
//
// # Rendering
//
// Render walks a mounted subtree and hands each node to the renderer
// registered for its render key in a Table. A node without a renderer
// renders nothing; a panicking renderer is isolated to its own node.
package component
