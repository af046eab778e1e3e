package renderer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

var glyphs = map[string]string{
	"arrowBackUp":    "↶",
	"arrowForwardUp": "↷",
	"chevronLeft":    "‹",
	"chevronRight":   "›",
	"copy":           "⧉",
	"download":       "⤓",
	"highlight":      "▌",
	"listTree":       "☰",
	"photo":          "▦",
	"search":         "⌕",
	"sidebar":        "◧",
	"trash":          "✕",
	"zoomIn":         "+",
	"zoomOut":        "−",
	"zoom":           "⊕",
}

// glyph returns the terminal glyph for an icon name, or "" when unknown.
func glyph(icon string) string {
	return glyphs[icon]
}

// iconButtonProps are the props of an icon button node.
type iconButtonProps struct {
	CommandID string         `prop:"commandId"`
	Label     string         `prop:"label"`
	Icon      string         `prop:"icon"`
	IconProps map[string]any `prop:"iconProps"`
	Color     string         `prop:"color"`
	Active    bool           `prop:"active"`
	Disabled  bool           `prop:"disabled"`
}

func (s *set) iconButton(f component.Frame) string {
	var p iconButtonProps
	if err := f.Props.Decode(&p); err != nil {
		return ""
	}

	icon := p.Icon
	if icon == "" && s.Session.Commands != nil {
		icon, _ = s.Session.Commands.ResolveIcon(p.CommandID, s.state())
	}
	if icon == "" {
		icon = p.CommandID
	}

	style := s.buttonStyle(p.Active, p.Disabled)
	g := glyph(icon)
	if g == "" {
		return style.Render(p.Label)
	}
	if c, _ := p.IconProps["primaryColor"].(string); c != "" && !p.Disabled {
		g = s.Styles.Text.Foreground(lipgloss.Color(c)).Render(g)
	}
	// Compact buttons in vertical stacks and narrow frames.
	if f.Context.String("direction") == "vertical" || (f.Width > 0 && f.Width < 80) {
		return style.Render(g)
	}
	return style.Render(g + " " + p.Label)
}
