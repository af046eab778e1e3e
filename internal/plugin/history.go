package plugin

import (
	"sync"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Entry is one undoable change.
type Entry struct {
	Label string
	Undo  func()
	Redo  func()
}

// History keeps the undo and redo stacks for annotation edits.
type History struct {
	rt *Runtime

	mu   sync.Mutex
	undo []Entry
	redo []Entry
}

func newHistory(rt *Runtime) *History {
	return &History{rt: rt}
}

// Push records a change that has already been applied. It clears the redo stack.
func (h *History) Push(e Entry) {
	h.mu.Lock()
	h.undo = append(h.undo, e)
	h.redo = nil
	h.mu.Unlock()
	h.publish()
}

// Undo reverts the most recent change.
func (h *History) Undo() {
	h.mu.Lock()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	h.mu.Unlock()

	if e.Undo != nil {
		e.Undo()
	}
	h.publish()
}

// Redo reapplies the most recently undone change.
func (h *History) Redo() {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	h.mu.Unlock()

	if e.Redo != nil {
		e.Redo()
	}
	h.publish()
}

func (h *History) publish() {
	h.mu.Lock()
	next := store.HistoryState{CanUndo: len(h.undo) > 0, CanRedo: len(h.redo) > 0}
	h.mu.Unlock()
	update(h.rt, store.HistoryPlugin, func(store.HistoryState) store.HistoryState { return next })
}
