package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Frame carries the rendered regions for one composition.
type Frame struct {
	Width  int
	Height int

	Headers     map[Placement][]string
	LeftPanels  []string
	RightPanels []string
	// Document is the viewport content: the page scroller or a placeholder.
	Document        string
	InsideScroller  []string
	OutsideScroller []string
	CommandMenu     string
	// MenuColumn is the column the command menu opens at.
	MenuColumn int
}

// Compose lays the regions out in the viewer skeleton:
//
//	top headers
//	left headers | left panels | viewport | right panels | right headers
//	bottom headers
//
// Floating nodes inside the scroller are centered at the top of the
// viewport, nodes outside it at the bottom, and the command menu is drawn
// over everything just below the top headers.
func Compose(r *lipgloss.Renderer, f Frame) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	top := stack(f.Headers[Top])
	bottom := stack(f.Headers[Bottom])
	topH := height(top)

	viewportW, middleH := ViewportSize(f)
	leftCol := fit(r, stack(f.Headers[Left]), middleH)
	rightCol := fit(r, stack(f.Headers[Right]), middleH)
	leftPanels := fit(r, row(f.LeftPanels), middleH)
	rightPanels := fit(r, row(f.RightPanels), middleH)

	viewport := r.NewStyle().
		Width(viewportW).MaxWidth(viewportW).
		Height(middleH).MaxHeight(middleH).
		Render(f.Document)
	viewport = placeFloating(viewport, f.InsideScroller, f.OutsideScroller, viewportW, middleH)

	middle := lipgloss.JoinHorizontal(lipgloss.Top, nonEmpty(leftCol, leftPanels, viewport, rightPanels, rightCol)...)
	out := lipgloss.JoinVertical(lipgloss.Left, nonEmpty(top, middle, bottom)...)

	if f.CommandMenu != "" {
		col := min(max(f.MenuColumn, 0), max(f.Width-lipgloss.Width(f.CommandMenu), 0))
		out = OverlayAt(out, f.CommandMenu, col, topH, f.Width)
	}
	return out
}

// ViewportSize returns the cells left for the document once every header
// and panel in f is placed. Both dimensions are at least 1.
func ViewportSize(f Frame) (width, h int) {
	h = f.Height - height(stack(f.Headers[Top])) - height(stack(f.Headers[Bottom]))
	width = f.Width
	for _, s := range []string{stack(f.Headers[Left]), stack(f.Headers[Right]), row(f.LeftPanels), row(f.RightPanels)} {
		width -= lipgloss.Width(s)
	}
	return max(width, 1), max(h, 1)
}

func placeFloating(viewport string, inside, outside []string, width, h int) string {
	y := 0
	for _, o := range inside {
		if o == "" {
			continue
		}
		x := (width - lipgloss.Width(o)) / 2
		viewport = OverlayAt(viewport, o, x, y, width)
		y += height(o)
	}

	y = h
	for i := len(outside) - 1; i >= 0; i-- {
		o := outside[i]
		if o == "" {
			continue
		}
		y -= height(o)
		x := (width - lipgloss.Width(o)) / 2
		viewport = OverlayAt(viewport, o, x, y, width)
	}
	return viewport
}

func stack(parts []string) string {
	parts = nonEmpty(parts...)
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func row(parts []string) string {
	parts = nonEmpty(parts...)
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func fit(r *lipgloss.Renderer, s string, h int) string {
	if s == "" {
		return ""
	}
	return r.NewStyle().Height(h).MaxHeight(h).Render(s)
}

func height(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
