// Package store holds the shared application-state tree: one immutable
// snapshot mapping each plugin identifier to that plugin's state slice, plus
// the document-level core state.
//
// The UI layer sees the tree only through [Tree] (snapshot read + subscribe).
// Mutations go through [Store.Update], which the plugin runtime calls from its
// capability methods; each update is atomic, bumps the version and notifies
// subscribers synchronously in the order updates were applied.
package store
