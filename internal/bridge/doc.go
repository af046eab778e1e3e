// Package bridge hosts the PDF viewer as a self-contained element that a
// terminal program embeds by tag name.
//
// An Element owns a Scope, an isolated lipgloss renderer and output buffer,
// so nothing it renders changes the host's styles. Each mount creates a fresh
// state store, plugin runtime and component tree, starts the document load
// and attaches the projector once the document is ready. Reconfigure
// replaces the whole mount synchronously; Disconnect tears it down and
// cancels any load still in flight. Results of a load that finish after
// their mount was replaced are dropped by a generation check.
//
// Lifecycle:
//
//	el := bridge.Init(bridge.Config{URL: path}, host, bridge.WithScheduler(post))
//	if el == nil {
//		// environment cannot host elements
//	}
//	out := el.Render(width, height)
//	el.Reconfigure(bridge.Config{URL: other})
//	el.Disconnect()
package bridge
