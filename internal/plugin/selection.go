package plugin

import (
	"slices"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Position addresses a rune offset on a page.
type Position struct {
	Page   int
	Offset int
}

// Selection is the text selection capability.
type Selection struct {
	rt     *Runtime
	anchor Position
}

// Begin starts a selection at p.
func (s *Selection) Begin(p Position) {
	s.anchor = p
	update(s.rt, store.SelectionPlugin, func(store.SelectionState) store.SelectionState {
		return store.SelectionState{Selecting: true}
	})
}

// Update extends the selection being made to p.
func (s *Selection) Update(p Position) {
	if !s.State().Selecting {
		return
	}
	ranges := s.rangesBetween(s.anchor, p)
	update(s.rt, store.SelectionPlugin, func(prev store.SelectionState) store.SelectionState {
		prev.Ranges = ranges
		prev.Active = len(ranges) > 0
		return prev
	})
}

// End finishes the selection being made.
func (s *Selection) End() {
	update(s.rt, store.SelectionPlugin, func(prev store.SelectionState) store.SelectionState {
		prev.Selecting = false
		return prev
	})
}

// Select replaces the selection with ranges.
func (s *Selection) Select(ranges ...store.TextRange) {
	ranges = slices.DeleteFunc(slices.Clone(ranges), func(r store.TextRange) bool { return r.End <= r.Start })
	update(s.rt, store.SelectionPlugin, func(store.SelectionState) store.SelectionState {
		return store.SelectionState{Active: len(ranges) > 0, Ranges: ranges}
	})
}

// Clear drops the selection.
func (s *Selection) Clear() {
	update(s.rt, store.SelectionPlugin, func(store.SelectionState) store.SelectionState {
		return store.SelectionState{}
	})
}

// GetFormattedSelection returns the selected ranges, one per page.
func (s *Selection) GetFormattedSelection() []store.TextRange {
	return slices.Clone(s.State().Ranges)
}

// GetSelectedText resolves to the text of each selected range.
func (s *Selection) GetSelectedText() *Future[[]string] {
	return Resolved(s.rt.post, s.selectedText())
}

// CopyToClipboard copies the selected text, one range per line.
func (s *Selection) CopyToClipboard() error {
	texts := s.selectedText()
	if len(texts) == 0 {
		return nil
	}
	err := s.rt.clipboard.WriteAll(strings.Join(texts, "\n"))
	update(s.rt, store.SelectionPlugin, func(prev store.SelectionState) store.SelectionState {
		prev.CopyError = ""
		if err != nil {
			prev.CopyError = err.Error()
		}
		return prev
	})
	if err != nil {
		s.rt.logger.Warn("copy to clipboard failed", "ranges", len(texts), "error", err)
		return errors.Wrap(err, "copy selection")
	}
	return nil
}

func (s *Selection) selectedText() []string {
	doc := s.rt.Document()
	if doc == nil {
		return nil
	}
	ranges := s.State().Ranges
	texts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		texts = append(texts, sliceRunes(doc.Text(r.PageIndex), r.Start, r.End))
	}
	return texts
}

// State returns the selection slice.
func (s *Selection) State() store.SelectionState {
	return slice[store.SelectionState](s.rt, store.SelectionPlugin)
}

func (s *Selection) rangesBetween(a, b Position) []store.TextRange {
	if b.Page < a.Page || (b.Page == a.Page && b.Offset < a.Offset) {
		a, b = b, a
	}
	doc := s.rt.Document()
	pageLen := func(page int) int {
		if doc == nil {
			return 0
		}
		return len([]rune(doc.Text(page)))
	}

	var ranges []store.TextRange
	for page := a.Page; page <= b.Page; page++ {
		start, end := 0, pageLen(page)
		if page == a.Page {
			start = min(a.Offset, end)
		}
		if page == b.Page {
			end = min(b.Offset, end)
		}
		if end > start {
			ranges = append(ranges, store.TextRange{PageIndex: page, Start: start, End: end})
		}
	}
	return ranges
}

func sliceRunes(s string, start, end int) string {
	r := []rune(s)
	start = min(max(start, 0), len(r))
	end = min(max(end, start), len(r))
	return string(r[start:end])
}
