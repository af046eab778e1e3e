package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
)

// minTextWidth is the narrowest column the page text is wrapped to.
const minTextWidth = 20

type mark uint8

const (
	markNone mark = iota
	markAnnotation
	markSelection
	markMatch
	markCurrent
	markCursor
)

// span is a run of page text drawn with one style.
type span struct {
	text  string
	mark  mark
	color string
}

// DocumentView renders the current page of a session inside a scrollable
// viewport. Search hits, annotations, the selection and the keyboard
// selection cursor are drawn over the page text.
type DocumentView struct {
	vp     viewport.Model
	styles *styles.Styles

	page       int
	lastActive int
	// Cursor is the rune offset of the selection cursor, -1 when hidden.
	Cursor int
}

// NewDocumentView creates an empty view.
func NewDocumentView() *DocumentView {
	return &DocumentView{vp: viewport.New(0, 0), page: -1, lastActive: -1, Cursor: -1}
}

// SetStyles replaces the styles pages are drawn with.
func (d *DocumentView) SetStyles(s *styles.Styles) { d.styles = s }

// ScrollBy moves the viewport by n lines.
func (d *DocumentView) ScrollBy(n int) {
	d.vp.SetYOffset(d.vp.YOffset + n)
}

// Reset forgets the scroll position, as after a remount.
func (d *DocumentView) Reset() {
	d.page, d.lastActive, d.Cursor = -1, -1, -1
	d.vp.GotoTop()
}

// Render draws the session's current page into width x height.
func (d *DocumentView) Render(s bridge.Session, width, height int) string {
	if s.Document == nil || s.Runtime == nil {
		return ""
	}
	st := d.styles
	if st == nil {
		st = styles.New(s.Renderer, nil)
		d.styles = st
	}
	state := s.Runtime.Store().Snapshot()
	scroll, _ := store.Slice[store.ScrollState](state, store.ScrollPlugin)
	zoom, _ := store.Slice[store.ZoomState](state, store.ZoomPlugin)
	search, _ := store.Slice[store.SearchState](state, store.SearchPlugin)

	page := max(scroll.CurrentPage-1, 0)
	textWidth := TextWidth(width-4, zoom.CurrentZoomLevel)

	header := st.PageHeader.Render(fmt.Sprintf("Page %s of %d · %s · %.0f%%",
		s.Document.Label(page), s.Document.PageCount(), s.Document.Name, zoomPercent(zoom)))

	text := s.Document.Text(page)
	body := st.Muted.Render("(no text on this page)")
	if text != "" {
		body = ansi.Wrap(d.paint(st, Spans(text, page, state, d.Cursor)), textWidth, "")
	}

	d.vp.Width = max(width, 1)
	d.vp.Height = max(height-2, 1)
	d.vp.SetContent(body)

	if page != d.page {
		d.vp.GotoTop()
		d.page = page
	}
	if search.ActiveResultIndex != d.lastActive {
		d.lastActive = search.ActiveResultIndex
		if r, ok := activeResult(search); ok && r.PageIndex == page {
			d.reveal(lineOf(text, r.Offset, textWidth))
		}
	}
	if d.Cursor >= 0 {
		d.reveal(lineOf(text, d.Cursor, textWidth))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", d.vp.View())
	return s.Renderer.PlaceHorizontal(max(width, 1), lipgloss.Center, content)
}

// reveal scrolls line into view, centering it when it was off screen.
func (d *DocumentView) reveal(line int) {
	if line >= d.vp.YOffset && line < d.vp.YOffset+d.vp.Height {
		return
	}
	d.vp.SetYOffset(line - d.vp.Height/2)
}

func (d *DocumentView) paint(st *styles.Styles, spans []span) string {
	var sb strings.Builder
	for _, sp := range spans {
		style, styled := spanStyle(st, sp)
		if !styled {
			sb.WriteString(sp.text)
			continue
		}
		// Render line by line so lipgloss does not pad lines to a block.
		for i, line := range strings.Split(sp.text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return sb.String()
}

func spanStyle(st *styles.Styles, sp span) (lipgloss.Style, bool) {
	switch sp.mark {
	case markCursor:
		return st.Cursor, true
	case markCurrent:
		return st.MatchCurrent, true
	case markMatch:
		return st.Match, true
	case markSelection:
		return st.Selection, true
	case markAnnotation:
		if strings.HasPrefix(sp.color, "u:") {
			return st.Underline.Foreground(lipgloss.Color(strings.TrimPrefix(sp.color, "u:"))), true
		}
		return st.Color(st.Highlight, sp.color), true
	default:
		return lipgloss.Style{}, false
	}
}

// Spans splits a page's text into runs by what is drawn over them. Offsets
// are runes. Later layers win: annotations, then the selection, then search
// hits, then the cursor.
func Spans(text string, page int, state store.State, cursor int) []span {
	runes := []rune(text)
	marks := make([]mark, len(runes))
	colors := make([]string, len(runes))

	paintRange := func(start, end int, m mark, color string) {
		start, end = max(start, 0), min(end, len(runes))
		for i := start; i < end; i++ {
			marks[i] = m
			colors[i] = color
		}
	}

	if ann, ok := store.Slice[store.AnnotationState](state, store.AnnotationPlugin); ok {
		for _, a := range ann.Pages[page] {
			color := a.Color
			if a.Subtype == store.SubtypeUnderline {
				color = "u:" + a.Color
			}
			paintRange(a.Range.Start, a.Range.End, markAnnotation, color)
			if ann.Selected != nil && ann.Selected.ID == a.ID {
				paintRange(a.Range.Start, a.Range.End, markSelection, "")
			}
		}
	}
	if sel, ok := store.Slice[store.SelectionState](state, store.SelectionPlugin); ok {
		for _, r := range sel.Ranges {
			if r.PageIndex == page {
				paintRange(r.Start, r.End, markSelection, "")
			}
		}
	}
	if search, ok := store.Slice[store.SearchState](state, store.SearchPlugin); ok {
		for i, r := range search.Results {
			if r.PageIndex != page {
				continue
			}
			m := markMatch
			if i == search.ActiveResultIndex {
				m = markCurrent
			}
			paintRange(r.Offset, r.Offset+r.Length, m, "")
		}
	}
	if cursor >= 0 && cursor < len(runes) {
		paintRange(cursor, cursor+1, markCursor, "")
	}

	var spans []span
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || marks[i] != marks[start] || colors[i] != colors[start] {
			spans = append(spans, span{text: string(runes[start:i]), mark: marks[start], color: colors[start]})
			start = i
		}
	}
	return spans
}

// TextWidth is the wrap width for a zoom level: zooming out narrows the
// column, zooming in never exceeds the available width.
func TextWidth(available int, level float64) int {
	available = max(available, minTextWidth)
	if level <= 0 || level >= 1 {
		return available
	}
	return max(int(float64(available)*level), minTextWidth)
}

func zoomPercent(z store.ZoomState) float64 {
	if z.CurrentZoomLevel <= 0 {
		return 100
	}
	return z.CurrentZoomLevel * 100
}

func activeResult(s store.SearchState) (store.SearchResult, bool) {
	if s.ActiveResultIndex < 0 || s.ActiveResultIndex >= len(s.Results) {
		return store.SearchResult{}, false
	}
	return s.Results[s.ActiveResultIndex], true
}

// lineOf estimates the wrapped line a rune offset lands on.
func lineOf(text string, offset, width int) int {
	runes := []rune(text)
	offset = min(max(offset, 0), len(runes))
	return strings.Count(ansi.Wrap(string(runes[:offset]), width, ""), "\n")
}
