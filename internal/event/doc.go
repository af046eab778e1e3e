// Package event provides the synchronous pub-sub bus that carries state-tree
// updates and element lifecycle notifications through the PDF container.
//
// The shared state store publishes a [StateChangedEvent] after every atomic
// mutation; the projector subscribes to it. The bridge element publishes
// mount, unmount and engine events so hosts and tests can observe the
// lifecycle without holding references into it.
//
// # Subscription Accounting
//
// [Bus.SubscriptionCount] reports live subscriptions. Tests use it to assert
// that tearing a widget tree down releases every handler it registered.
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine, in registration order, and a panicking handler is
// recovered and logged without affecting the remaining handlers.
package event
