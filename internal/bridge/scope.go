package bridge

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Scope is an element's isolated rendering boundary: a private lipgloss
// renderer and the last rendered output. Styles built from the scope's
// renderer never touch the host's default renderer.
type Scope struct {
	renderer *lipgloss.Renderer

	mu       sync.Mutex
	contents strings.Builder
	released bool
}

// NewScope creates a scope whose renderer matches the host's color profile
// and background.
func NewScope() *Scope {
	r := lipgloss.NewRenderer(io.Discard)
	host := lipgloss.DefaultRenderer()
	r.SetColorProfile(host.ColorProfile())
	r.SetHasDarkBackground(host.HasDarkBackground())
	return &Scope{renderer: r}
}

// Renderer returns the scope's renderer.
func (s *Scope) Renderer() *lipgloss.Renderer { return s.renderer }

// Replace swaps the scope contents for out.
func (s *Scope) Replace(out string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.contents.Reset()
	s.contents.WriteString(out)
}

// Contents returns the last rendered output.
func (s *Scope) Contents() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contents.String()
}

// Release clears the scope. A released scope ignores further output.
func (s *Scope) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.contents.Reset()
}

// Released reports whether Release was called.
func (s *Scope) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
