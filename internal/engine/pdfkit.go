package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wudi/pdfkit/extractor"
	"github.com/wudi/pdfkit/ir"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

// MaxDocumentSize bounds how much of a source is read.
const MaxDocumentSize = 256 << 20

// Engine loads documents by source.
type Engine interface {
	Load(ctx context.Context, source string) (*Document, error)
}

// PDFKit is the Engine backed by github.com/wudi/pdfkit.
type PDFKit struct {
	client *http.Client
	logger *logging.Logger
	parse  func(ctx context.Context, data []byte) (*Document, error)
}

// PDFKitOption configures a PDFKit engine.
type PDFKitOption func(*PDFKit)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) PDFKitOption {
	return func(p *PDFKit) {
		if c != nil {
			p.client = c
		}
	}
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(logger *logging.Logger) PDFKitOption {
	return func(p *PDFKit) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPDFKit creates a pdfkit engine.
func NewPDFKit(opts ...PDFKitOption) *PDFKit {
	p := &PDFKit{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logging.NopLogger(),
		parse:  parsePDF,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("engine")
	return p
}

// Load fetches and parses source. Failures are returned as *errors.EngineError.
func (p *PDFKit) Load(ctx context.Context, source string) (*Document, error) {
	start := time.Now()
	data, err := p.fetch(ctx, source)
	if err != nil {
		return nil, errors.NewEngineError(source, "fetch", err)
	}

	doc, err := p.parse(ctx, data)
	if err != nil {
		return nil, errors.NewEngineError(source, "parse", err)
	}
	doc.ID = DocumentID(source)
	doc.Name = DocumentName(source)
	doc.Source = source
	doc.Data = data

	p.logger.Info("document loaded",
		"source", source,
		"pages", doc.PageCount(),
		"bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (p *PDFKit) fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("empty source")
	}
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return p.fetchHTTP(ctx, source)
	}
	if err == nil && u.Scheme == "file" {
		source = u.Path
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func (p *PDFKit) fetchHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", MaxDocumentSize)
	}
	return data, nil
}

// parsePDF runs the pdfkit pipeline and extracts everything the viewer uses.
func parsePDF(ctx context.Context, data []byte) (*Document, error) {
	sem, err := ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ex, err := extractor.New(sem.Decoded())
	if err != nil {
		return nil, err
	}

	meta := ex.ExtractMetadata()
	doc := &Document{
		Title:   meta.Info.Title,
		Author:  meta.Info.Author,
		Version: meta.Version,
		Pages:   make([]Page, meta.PageCount),
	}
	labels := ex.PageLabels()
	for i := range doc.Pages {
		doc.Pages[i] = Page{Index: i, Label: labels[i]}
	}

	texts, err := ex.ExtractText()
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	for _, t := range texts {
		if t.Page >= 0 && t.Page < len(doc.Pages) {
			doc.Pages[t.Page].Text = t.Content
		}
	}

	annots, err := ex.ExtractAnnotations()
	if err != nil {
		return nil, fmt.Errorf("extract annotations: %w", err)
	}
	for _, a := range annots {
		doc.Annotations = append(doc.Annotations, Annotation{
			Page:     a.Page,
			Subtype:  a.Subtype,
			Rect:     a.Rect,
			Contents: a.Contents,
			URI:      a.URI,
			Color:    a.Color,
		})
	}

	doc.Outline = convertOutline(ex.ExtractBookmarks())
	return doc, nil
}

func convertOutline(in []extractor.Bookmark) []Outline {
	if len(in) == 0 {
		return nil
	}
	out := make([]Outline, len(in))
	for i, b := range in {
		out[i] = Outline{Title: b.Title, Page: b.Page, Children: convertOutline(b.Children)}
	}
	return out
}

// DocumentID derives a stable id from the source.
func DocumentID(source string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source)).String()
}

// DocumentName returns the file name part of a source.
func DocumentName(source string) string {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		if name := path.Base(u.Path); name != "/" && name != "." {
			return name
		}
		return "document.pdf"
	}
	name := filepath.Base(source)
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "document.pdf"
	}
	return name
}
