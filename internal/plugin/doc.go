// Package plugin implements the plugin runtime that owns the shared state
// tree while a document is open, and the capability providers the UI layer
// reaches through it: zoom, scroll, search, selection, annotation, history,
// export, viewport, interaction-manager and ui.
//
// Capabilities are the only writers of the state tree. Each method performs
// one atomic store update; methods called after Teardown are no-ops.
//
//	rt := plugin.New(st, plugin.WithScheduler(post))
//	rt.Boot(doc, cfg)
//	if zoom, ok := plugin.Get[*plugin.Zoom](rt, store.ZoomPlugin); ok {
//		zoom.ZoomIn()
//	}
package plugin
