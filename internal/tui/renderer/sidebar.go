package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// thumbnailRows is how many lines one page preview takes, gap included.
const thumbnailRows = 3

func (s *set) thumbnails(f component.Frame) string {
	doc := s.Session.Document
	if doc == nil || doc.PageCount() == 0 {
		return s.Styles.Muted.Render("No pages")
	}
	current := max(f.Props.Int("currentPage"), 1)
	width := max(s.SidebarWidth-6, 8)

	// Keep the current page inside the window that fits the panel.
	visible := max((f.Height-6)/thumbnailRows, 1)
	first := max(min(current-1-visible/2, doc.PageCount()-visible), 0)
	last := min(first+visible, doc.PageCount())

	var rows []string
	for i := first; i < last; i++ {
		label := s.Styles.Muted.Render(doc.Label(i))
		preview := ansi.Truncate(firstLine(doc.Text(i)), width, "…")
		if preview == "" {
			preview = "(blank)"
		}
		if i == current-1 {
			label = s.Styles.Primary.Bold(true).Render("▸ " + doc.Label(i))
			preview = s.Styles.Text.Render(preview)
		} else {
			label = "  " + label
			preview = s.Styles.Muted.Render(preview)
		}
		rows = append(rows, label, "  "+preview, "")
	}
	return strings.TrimRight(strings.Join(rows, "\n"), "\n")
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func (s *set) outline(f component.Frame) string {
	doc := s.Session.Document
	if doc == nil || len(doc.Outline) == 0 {
		return s.Styles.Muted.Render("No outline")
	}
	current := f.Props.Int("currentPage")
	width := max(s.SidebarWidth-6, 8)

	var rows []string
	var walk func(entries []engine.Outline, depth int)
	walk = func(entries []engine.Outline, depth int) {
		for _, e := range entries {
			title := ansi.Truncate(strings.Repeat("  ", depth)+e.Title, width-4, "…")
			page := fmt.Sprintf("%*d", 3, e.Page+1)
			row := s.Styles.Text.Render(title) + " " + s.Styles.Muted.Render(page)
			if e.Page+1 == current {
				row = s.Styles.Primary.Bold(true).Render(title) + " " + s.Styles.Primary.Render(page)
			}
			rows = append(rows, row)
			walk(e.Children, depth+1)
		}
	}
	walk(doc.Outline, 0)

	if limit := max(f.Height-6, 1); len(rows) > limit {
		rows = append(rows[:limit-1], s.Styles.Muted.Render(fmt.Sprintf("… %d more", len(rows)-limit+1)))
	}
	return strings.Join(rows, "\n")
}
