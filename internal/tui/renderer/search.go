package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// searchProps are the props of the search node.
type searchProps struct {
	Query             string               `prop:"query"`
	Flags             []store.SearchFlag   `prop:"flags"`
	Results           []store.SearchResult `prop:"results"`
	Total             int                  `prop:"total"`
	ActiveResultIndex int                  `prop:"activeResultIndex"`
	Active            bool                 `prop:"active"`
	Loading           bool                 `prop:"loading"`
}

var searchFlags = []struct {
	flag  store.SearchFlag
	label string
}{
	{store.SearchMatchCase, "Aa"},
	{store.SearchWholeWord, "W"},
	{store.SearchWildcard, "*"},
}

func (s *set) search(f component.Frame) string {
	var p searchProps
	if err := f.Props.Decode(&p); err != nil {
		return s.Styles.Error.Render(err.Error())
	}
	width := max(s.PanelWidth-4, 10)

	flags := make([]string, 0, len(searchFlags))
	for _, sf := range searchFlags {
		style := s.Styles.Tab
		if slices.Contains(p.Flags, sf.flag) {
			style = s.Styles.TabActive
		}
		flags = append(flags, style.Render(sf.label))
	}

	lines := []string{
		s.Styles.PanelTitle.Render("Search"),
		s.SearchInput(),
		lipgloss.JoinHorizontal(lipgloss.Top, flags...),
		"",
	}

	switch {
	case p.Loading:
		lines = append(lines, s.Styles.Muted.Render("Searching…"))
	case !p.Active || p.Query == "":
		lines = append(lines, s.Styles.Muted.Render("Type to search the document"))
	case p.Total == 0:
		lines = append(lines, s.Styles.Muted.Render("No results"))
	default:
		lines = append(lines, s.Styles.Muted.Render(resultCount(p.Total, p.ActiveResultIndex)))
		lines = append(lines, s.results(p, width, max(f.Height-len(lines)-3, 2))...)
	}
	return strings.Join(lines, "\n")
}

func resultCount(total, active int) string {
	noun := "results"
	if total == 1 {
		noun = "result"
	}
	if active >= 0 {
		return fmt.Sprintf("%d of %d %s", active+1, total, noun)
	}
	return fmt.Sprintf("%d %s", total, noun)
}

// results renders a window of result rows around the active result. Every
// result takes two lines.
func (s *set) results(p searchProps, width, height int) []string {
	visible := max(height/2, 1)
	first := max(min(p.ActiveResultIndex-visible/2, len(p.Results)-visible), 0)
	last := min(first+visible, len(p.Results))

	var lines []string
	lastPage := -1
	for i := first; i < last; i++ {
		r := p.Results[i]
		if r.PageIndex != lastPage {
			lines = append(lines, s.Styles.Muted.Render(fmt.Sprintf("Page %d", r.PageIndex+1)))
			lastPage = r.PageIndex
		}
		excerpt := ansi.Truncate(strings.ReplaceAll(r.Excerpt, "\n", " "), width, "…")
		if i == p.ActiveResultIndex {
			lines = append(lines, s.Styles.MatchCurrent.Render(excerpt))
		} else {
			lines = append(lines, s.Styles.Text.Render(excerpt))
		}
	}
	return lines
}
