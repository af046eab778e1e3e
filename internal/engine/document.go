package engine

import (
	"strconv"
	"strings"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Page is the extracted content of one page.
type Page struct {
	// Index is the 0-based page index.
	Index int
	Label string
	Text  string
}

// Outline is one document outline entry.
type Outline struct {
	Title string
	// Page is the 0-based target page.
	Page     int
	Children []Outline
}

// Annotation is an annotation stored in the document itself.
type Annotation struct {
	// Page is the 0-based target page.
	Page     int
	Subtype  string
	Rect     [4]float64
	Contents string
	URI      string
	Color    []float64
}

// Document is a loaded PDF.
type Document struct {
	ID      string
	Name    string
	Source  string
	Title   string
	Author  string
	Version string
	// Pages has one entry per page, including pages without text.
	Pages       []Page
	Outline     []Outline
	Annotations []Annotation
	// Data is the raw file content, kept for export.
	Data []byte
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Text returns the text of the page at index, or "" when out of range.
func (d *Document) Text(index int) string {
	if index < 0 || index >= len(d.Pages) {
		return ""
	}
	return d.Pages[index].Text
}

// Label returns the page label, defaulting to the 1-based page number.
func (d *Document) Label(index int) string {
	if index >= 0 && index < len(d.Pages) && d.Pages[index].Label != "" {
		return d.Pages[index].Label
	}
	return strconv.Itoa(index + 1)
}

// Info summarizes the document for the shared state tree.
func (d *Document) Info() store.DocumentInfo {
	return store.DocumentInfo{
		ID:        d.ID,
		Name:      d.Name,
		Source:    d.Source,
		PageCount: d.PageCount(),
		Title:     d.Title,
		Author:    d.Author,
	}
}

// FullText joins all page text with form feeds between pages.
func (d *Document) FullText() string {
	parts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\f")
}
