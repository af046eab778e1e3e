package store

import (
	"maps"
	"sync"

	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

// Tree is the read side of the shared state tree handed to the UI layer.
type Tree interface {
	// Snapshot returns the current immutable state.
	Snapshot() State
	// Subscribe registers fn to run after every update and returns a
	// function that removes the subscription.
	Subscribe(fn func(State)) (unsubscribe func())
}

// Store owns the shared state tree. It is safe for concurrent use; updates are
// applied one at a time and subscribers are notified in update order. An
// update issued from inside a subscriber is queued behind the notification
// in progress rather than nested inside it.
type Store struct {
	mu          sync.Mutex
	state       State
	pending     []event.StateChangedEvent
	dispatching bool
	closed      bool

	bus    *event.Bus
	logger *logging.Logger
}

var _ Tree = (*Store)(nil)

// New creates an empty Store.
func New(logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Store{
		state:  State{Plugins: make(map[PluginID]any)},
		bus:    event.NewBus(logger),
		logger: logger.WithComponent("store"),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.bus.Subscribe(event.TypeStateChanged, func(event.Event) {
		fn(s.Snapshot())
	})
}

// SubscriptionCount returns the number of live subscriptions.
func (s *Store) SubscriptionCount() int {
	return s.bus.SubscriptionCount()
}

// Update atomically replaces the slice for id with fn(previous). previous is
// nil when the slice does not exist yet. fn must not mutate previous.
func (s *Store) Update(id PluginID, fn func(prev any) any) {
	s.commit(string(id), func(cur State) State {
		plugins := maps.Clone(cur.Plugins)
		plugins[id] = fn(cur.Plugins[id])
		return State{Version: cur.Version + 1, Core: cur.Core, Plugins: plugins}
	})
}

// UpdateCore atomically replaces the core state.
func (s *Store) UpdateCore(fn func(prev CoreState) CoreState) {
	s.commit("core", func(cur State) State {
		return State{Version: cur.Version + 1, Core: fn(cur.Core), Plugins: cur.Plugins}
	})
}

func (s *Store) commit(plugin string, apply func(State) State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = apply(s.state)
	s.pending = append(s.pending, event.NewStateChangedEvent(s.state.Version, plugin))
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.bus.Publish(next)
	}
}

// Close drops every subscription and ignores later updates.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
	s.bus.Clear()
	s.logger.Debug("store closed")
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// UpdateSlice is the typed form of Store.Update. fn receives the zero value
// when the slice does not exist yet.
func UpdateSlice[T any](s *Store, id PluginID, fn func(prev T) T) {
	s.Update(id, func(prev any) any {
		typed, _ := prev.(T)
		return fn(typed)
	})
}
