package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pdfcontainer/internal/bridge"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/tui/styles"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// Registrar accepts renderers by key. The ui capability implements it.
type Registrar interface {
	RegisterComponentRenderer(key string, r component.Renderer)
}

// Options configure the renderers for one session.
type Options struct {
	Session bridge.Session
	Styles  *styles.Styles
	// SidebarWidth and PanelWidth size the left and right panels.
	SidebarWidth int
	PanelWidth   int
	// SearchInput returns the rendered search box.
	SearchInput func() string
	// MenuCursor returns the highlighted command menu row.
	MenuCursor func() int
}

func (o Options) withDefaults() Options {
	if o.Styles == nil {
		o.Styles = styles.New(o.Session.Renderer, nil)
	}
	if o.SidebarWidth <= 0 {
		o.SidebarWidth = 28
	}
	if o.PanelWidth <= 0 {
		o.PanelWidth = 36
	}
	if o.SearchInput == nil {
		o.SearchInput = func() string { return "" }
	}
	if o.MenuCursor == nil {
		o.MenuCursor = func() int { return 0 }
	}
	return o
}

// set holds the per-session state every renderer closes over.
type set struct {
	Options
}

// Renderers returns a renderer for every key in viewer.RenderKeys.
func Renderers(opts Options) map[string]component.Renderer {
	s := &set{Options: opts.withDefaults()}
	return map[string]component.Renderer{
		"groupedItems":          s.groupedItems,
		"iconButton":            s.iconButton,
		"header":                s.header,
		"panel":                 s.panel,
		"search":                s.search,
		"zoom":                  s.zoom,
		"pageControlsContainer": s.floatingBar,
		"pageControls":          s.pageControls,
		"commandMenu":           s.commandMenu,
		"thumbnails":            s.thumbnails,
		"selectButton":          s.selectButton,
		"textSelectionMenu":     s.floatingMenu,
		"leftPanelMain":         s.leftPanelMain,
		"outline":               s.outline,
		"annotationMenu":        s.floatingMenu,
	}
}

// Register installs the renderers on reg.
func Register(reg Registrar, opts Options) {
	for key, r := range Renderers(opts) {
		reg.RegisterComponentRenderer(key, r)
	}
}

func (s *set) state() store.State {
	if s.Session.Runtime == nil {
		return store.State{}
	}
	return s.Session.Runtime.Store().Snapshot()
}

func outputs(children []component.Rendered) []string {
	out := make([]string, 0, len(children))
	for _, c := range children {
		if c.Output != "" {
			out = append(out, c.Output)
		}
	}
	return out
}

// join lays parts out along direction with gap cells between them.
func join(direction string, gap int, parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	if direction == "vertical" {
		// Stacked rows are already one cell apart; a gap of n adds n-1 blank rows.
		if gap > 1 {
			parts = interleave(parts, strings.Repeat("\n", gap-2))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	if gap > 0 {
		parts = interleave(parts, strings.Repeat(" ", gap))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func interleave(parts []string, sep string) []string {
	out := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func (s *set) groupedItems(f component.Frame) string {
	direction := f.Context.String("direction")
	if direction == "" {
		direction = "horizontal"
	}
	return join(direction, f.Props.Int("gap"), outputs(f.Children))
}

func (s *set) header(f component.Frame) string {
	direction := "horizontal"
	if p := f.Props.String("placement"); p == "left" || p == "right" {
		direction = "vertical"
	}
	parts := outputs(f.Children)
	if len(parts) == 0 {
		return ""
	}
	if direction == "vertical" {
		return s.Styles.Header.BorderBottom(false).Render(join(direction, f.Props.Int("gap"), parts))
	}
	return s.Styles.Header.Width(max(f.Width, 1)).Render(spread(parts, f.Width))
}

// spread places the first part left, the last right and the rest centered.
func spread(parts []string, width int) string {
	if len(parts) == 1 {
		return parts[0]
	}
	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	free := max(width-used, len(parts)-1)
	gaps := len(parts) - 1
	var sb strings.Builder
	for i, p := range parts {
		if i > 0 {
			n := free / gaps
			if i <= free%gaps {
				n++
			}
			sb.WriteString(strings.Repeat(" ", n))
		}
		sb.WriteString(p)
	}
	return sb.String()
}

func (s *set) panel(f component.Frame) string {
	if !f.Props.Bool("open") {
		return ""
	}
	width := s.PanelWidth
	if f.Props.String("location") == "left" {
		width = s.SidebarWidth
	}

	body, ok := f.Child(f.Props.String("visibleChild"))
	if !ok && len(f.Children) > 0 {
		body = f.Children[0].Output
	}
	return s.Styles.Panel.
		Width(max(width-2, 1)).
		Height(max(f.Height-2, 1)).
		Render(body)
}

func (s *set) leftPanelMain(f component.Frame) string {
	tabs, _ := f.Child("leftPanelTabs")
	body, _ := f.Child(f.Props.String("visibleChild"))
	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", body)
}

func (s *set) floatingBar(f component.Frame) string {
	parts := outputs(f.Children)
	if len(parts) == 0 {
		return ""
	}
	return s.Styles.Floating.Render(join("horizontal", 1, parts))
}

func (s *set) floatingMenu(f component.Frame) string {
	if !f.Props.Bool("open") {
		return ""
	}
	return s.floatingBar(f)
}

func (s *set) pageControls(f component.Frame) string {
	page, count := max(f.Props.Int("currentPage"), 1), max(f.Props.Int("pageCount"), 1)
	prev, next := s.Styles.Button, s.Styles.Button
	if page <= 1 {
		prev = s.Styles.ButtonDisabled
	}
	if page >= count {
		next = s.Styles.ButtonDisabled
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		prev.Render(glyph("chevronLeft")),
		s.Styles.Text.Render(fmt.Sprintf("%d / %d", page, count)),
		next.Render(glyph("chevronRight")),
	)
}

func (s *set) zoom(f component.Frame) string {
	level := f.Props.Float("zoomLevel")
	if level <= 0 {
		level = 1
	}
	label := s.Styles.Button
	if f.Props.Bool("zoomMenuActive") {
		label = s.Styles.ButtonActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.Styles.Button.Render(glyph("zoomOut")),
		label.Render(fmt.Sprintf("%.0f%% ▾", level*100)),
		s.Styles.Button.Render(glyph("zoomIn")),
	)
}

// selectButtonProps are the props of a select button node.
type selectButtonProps struct {
	Label    string `prop:"label"`
	Value    string `prop:"value"`
	Active   bool   `prop:"active"`
	Disabled bool   `prop:"disabled"`
}

func (s *set) selectButton(f component.Frame) string {
	var p selectButtonProps
	if err := f.Props.Decode(&p); err != nil {
		return ""
	}
	text := p.Value
	if p.Label != "" {
		text = p.Label + ": " + p.Value
	}
	return s.buttonStyle(p.Active, p.Disabled).Render(text + " ▾")
}

func (s *set) buttonStyle(active, disabled bool) lipgloss.Style {
	switch {
	case disabled:
		return s.Styles.ButtonDisabled
	case active:
		return s.Styles.ButtonActive
	default:
		return s.Styles.Button
	}
}
