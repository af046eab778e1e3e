package styles

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles the viewer draws with. They are bound to
// one renderer so an element's output follows that renderer's color profile.
type Styles struct {
	Palette *Palette

	// Buttons
	Button         lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Header and panels
	Header     lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style

	// Menus and floating toolbars
	Menu         lipgloss.Style
	MenuTitle    lipgloss.Style
	MenuItem     lipgloss.Style
	MenuCursor   lipgloss.Style
	MenuDisabled lipgloss.Style
	Floating     lipgloss.Style

	// Document view
	Page         lipgloss.Style
	PageHeader   lipgloss.Style
	Match        lipgloss.Style
	MatchCurrent lipgloss.Style
	Selection    lipgloss.Style
	Highlight    lipgloss.Style
	Underline    lipgloss.Style
	Cursor       lipgloss.Style

	// Text
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Primary lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	Spinner   lipgloss.Style
}

// New builds the styles for palette p on renderer r. A nil renderer uses
// lipgloss's default renderer and a nil palette the default palette.
func New(r *lipgloss.Renderer, p *Palette) *Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if p == nil {
		p = DefaultPalette()
	}

	return &Styles{
		Palette: p,

		Button: r.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		ButtonActive: r.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Primary).
			Padding(0, 1),
		ButtonDisabled: r.NewStyle().
			Foreground(p.Muted).
			Faint(true).
			Padding(0, 1),

		Header: r.NewStyle().
			Foreground(p.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		PanelTitle: r.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Tab: r.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		TabActive: r.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Underline(true).
			Padding(0, 1),

		Menu: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Background(p.Surface).
			Padding(0, 1),
		MenuTitle: r.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		MenuItem: r.NewStyle().
			Foreground(p.Text),
		MenuCursor: r.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Primary),
		MenuDisabled: r.NewStyle().
			Foreground(p.Muted).
			Faint(true),
		Floating: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Background(p.Surface),

		Page: r.NewStyle().
			Foreground(p.Text).
			Padding(0, 2),
		PageHeader: r.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Match: r.NewStyle().
			Foreground(p.MatchFg).
			Background(p.MatchBg),
		MatchCurrent: r.NewStyle().
			Bold(true).
			Foreground(p.CurrentFg).
			Background(p.CurrentBg),
		Selection: r.NewStyle().
			Reverse(true),
		Highlight: r.NewStyle().
			Foreground(p.Surface).
			Background(p.Highlight),
		Underline: r.NewStyle().
			Underline(true).
			Foreground(p.Underline),
		Cursor: r.NewStyle().
			Blink(true).
			Reverse(true),

		Text:    r.NewStyle().Foreground(p.Text),
		Muted:   r.NewStyle().Foreground(p.Muted),
		Error:   r.NewStyle().Foreground(p.Error),
		Warning: r.NewStyle().Foreground(p.Warning),
		Primary: r.NewStyle().Foreground(p.Primary),

		StatusBar: r.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 1),
		HelpKey: r.NewStyle().
			Bold(true).
			Foreground(p.Secondary),
		Spinner: r.NewStyle().Foreground(p.Primary),
	}
}

// Color returns a style with the given foreground on renderer-independent
// defaults. Used for per-annotation colors.
func (s *Styles) Color(base lipgloss.Style, hex string) lipgloss.Style {
	if hex == "" {
		return base
	}
	return base.Background(lipgloss.Color(hex))
}
