package plugin

import (
	"slices"
	"strings"
	"unicode"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// excerptRadius is the number of runes of context kept on each side of a hit.
const excerptRadius = 24

// Search is the search capability.
type Search struct {
	rt *Runtime
}

// StartSearch marks the search session active.
func (s *Search) StartSearch() {
	update(s.rt, store.SearchPlugin, func(prev store.SearchState) store.SearchState {
		prev.Active = true
		return prev
	})
}

// StopSearch ends the session and clears results.
func (s *Search) StopSearch() {
	update(s.rt, store.SearchPlugin, func(prev store.SearchState) store.SearchState {
		return store.SearchState{Flags: prev.Flags, ActiveResultIndex: -1}
	})
}

// SetFlags replaces the match flags and reruns the current query.
func (s *Search) SetFlags(flags []store.SearchFlag) {
	update(s.rt, store.SearchPlugin, func(prev store.SearchState) store.SearchState {
		prev.Flags = slices.Clone(flags)
		return prev
	})
	if q := s.State().Query; q != "" {
		s.SearchAllPages(q)
	}
}

// ToggleFlag flips one match flag.
func (s *Search) ToggleFlag(flag store.SearchFlag) {
	flags := slices.Clone(s.State().Flags)
	if i := slices.Index(flags, flag); i >= 0 {
		flags = slices.Delete(flags, i, i+1)
	} else {
		flags = append(flags, flag)
	}
	s.SetFlags(flags)
}

// SearchAllPages runs query over every page and selects the first hit.
// An empty query clears the results.
func (s *Search) SearchAllPages(query string) int {
	doc := s.rt.Document()
	flags := s.State().Flags

	var results []store.SearchResult
	if doc != nil && query != "" {
		for i := range doc.PageCount() {
			results = append(results, FindAll(doc.Text(i), i, query, flags)...)
		}
	}

	active := -1
	if len(results) > 0 {
		active = 0
	}
	update(s.rt, store.SearchPlugin, func(prev store.SearchState) store.SearchState {
		prev.Query = query
		prev.Results = results
		prev.Total = len(results)
		prev.ActiveResultIndex = active
		prev.Active = true
		prev.Loading = false
		return prev
	})
	if active == 0 {
		s.reveal(results[0])
	}
	return len(results)
}

// NextResult moves to the next hit, wrapping around.
func (s *Search) NextResult() { s.step(1) }

// PreviousResult moves to the previous hit, wrapping around.
func (s *Search) PreviousResult() { s.step(-1) }

func (s *Search) step(delta int) {
	st := s.State()
	if st.Total == 0 {
		return
	}
	s.GoToResult((st.ActiveResultIndex + delta + st.Total) % st.Total)
}

// GoToResult activates hit i and scrolls its page into view.
func (s *Search) GoToResult(i int) {
	st := s.State()
	if i < 0 || i >= len(st.Results) {
		return
	}
	update(s.rt, store.SearchPlugin, func(prev store.SearchState) store.SearchState {
		prev.ActiveResultIndex = i
		return prev
	})
	s.reveal(st.Results[i])
}

func (s *Search) reveal(r store.SearchResult) {
	if scroll, ok := Get[*Scroll](s.rt, store.ScrollPlugin); ok {
		scroll.ScrollToPage(r.PageIndex + 1)
	}
}

// State returns the search slice.
func (s *Search) State() store.SearchState {
	return slice[store.SearchState](s.rt, store.SearchPlugin)
}

// FindAll returns every match of query in text. Offsets and lengths are in
// runes. With the wildcard flag the query is a glob matched against whole
// words; otherwise it is a literal substring.
func FindAll(text string, pageIndex int, query string, flags []store.SearchFlag) []store.SearchResult {
	if query == "" || text == "" {
		return nil
	}
	matchCase := slices.Contains(flags, store.SearchMatchCase)
	wholeWord := slices.Contains(flags, store.SearchWholeWord)

	runes := []rune(text)
	var hits [][2]int
	if slices.Contains(flags, store.SearchWildcard) {
		hits = globHits(runes, query, matchCase)
	} else {
		hits = literalHits(runes, []rune(query), matchCase, wholeWord)
	}

	results := make([]store.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, store.SearchResult{
			PageIndex: pageIndex,
			Offset:    h[0],
			Length:    h[1] - h[0],
			Excerpt:   excerpt(runes, h[0], h[1]),
		})
	}
	return results
}

func literalHits(text, query []rune, matchCase, wholeWord bool) [][2]int {
	fold := func(r rune) rune {
		if matchCase {
			return r
		}
		return unicode.ToLower(r)
	}

	var hits [][2]int
	for i := 0; i+len(query) <= len(text); i++ {
		match := true
		for j, q := range query {
			if fold(text[i+j]) != fold(q) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		end := i + len(query)
		if wholeWord && !(boundary(text, i-1) && boundary(text, end)) {
			continue
		}
		hits = append(hits, [2]int{i, end})
		i = end - 1
	}
	return hits
}

func globHits(text []rune, pattern string, matchCase bool) [][2]int {
	if !matchCase {
		pattern = strings.ToLower(pattern)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil
	}

	var hits [][2]int
	for start := 0; start < len(text); {
		if boundary(text, start) {
			start++
			continue
		}
		end := start
		for end < len(text) && !boundary(text, end) {
			end++
		}
		word := string(text[start:end])
		if !matchCase {
			word = strings.ToLower(word)
		}
		if g.Match(word) {
			hits = append(hits, [2]int{start, end})
		}
		start = end
	}
	return hits
}

// boundary reports whether position i is outside the text or not part of a word.
func boundary(text []rune, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := text[i]
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func excerpt(text []rune, start, end int) string {
	from := max(start-excerptRadius, 0)
	to := min(end+excerptRadius, len(text))
	s := strings.Join(strings.Fields(string(text[from:to])), " ")
	if from > 0 {
		s = "…" + s
	}
	if to < len(text) {
		s += "…"
	}
	return s
}
