package plugin

import "github.com/Iron-Ham/pdfcontainer/internal/store"

// Scroll is the scroll capability. Pages are 1-based.
type Scroll struct {
	rt *Runtime
}

func (s *Scroll) init(total int, strategy string) {
	current := 1
	if total == 0 {
		current = 0
	}
	update(s.rt, store.ScrollPlugin, func(store.ScrollState) store.ScrollState {
		return store.ScrollState{CurrentPage: current, TotalPages: total, Strategy: strategy}
	})
}

// ScrollToPage moves to page, clamped to the document.
func (s *Scroll) ScrollToPage(page int) {
	update(s.rt, store.ScrollPlugin, func(prev store.ScrollState) store.ScrollState {
		if prev.TotalPages == 0 {
			return prev
		}
		prev.CurrentPage = min(max(page, 1), prev.TotalPages)
		return prev
	})
}

// ScrollToNextPage moves forward one page.
func (s *Scroll) ScrollToNextPage() {
	s.ScrollToPage(s.State().CurrentPage + 1)
}

// ScrollToPreviousPage moves back one page.
func (s *Scroll) ScrollToPreviousPage() {
	s.ScrollToPage(s.State().CurrentPage - 1)
}

// State returns the scroll slice.
func (s *Scroll) State() store.ScrollState {
	return slice[store.ScrollState](s.rt, store.ScrollPlugin)
}
