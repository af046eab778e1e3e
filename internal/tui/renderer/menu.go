package renderer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// MenuItem is one row of an open command menu.
type MenuItem struct {
	ID       string
	Label    string
	Icon     string
	Active   bool
	Disabled bool
	// Submenu is true for menu commands, which drill down when chosen.
	Submenu bool
	// Depth is 1 for rows a flattened submenu contributes.
	Depth int
}

// MenuItems lists the rows of the menu showing activeCommand. With flatten,
// a submenu's children are listed inline below it.
func MenuItems(cmds *command.Registry, state store.State, activeCommand string, flatten bool) []MenuItem {
	if cmds == nil || activeCommand == "" {
		return nil
	}
	var items []MenuItem
	var add func(id string, depth int)
	add = func(id string, depth int) {
		for _, c := range cmds.Children(id) {
			if c.ID == "" {
				continue
			}
			item := MenuItem{
				ID:       c.ID,
				Label:    cmds.ResolveLabel(c.ID, state),
				Icon:     c.Icon,
				Active:   cmds.IsActive(c.ID, state),
				Disabled: cmds.IsDisabled(c.ID, state),
				Submenu:  c.Type == command.Menu,
				Depth:    depth,
			}
			items = append(items, item)
			if flatten && item.Submenu && depth == 0 {
				add(c.ID, depth+1)
			}
		}
	}
	add(activeCommand, 0)
	return items
}

func (s *set) commandMenu(f component.Frame) string {
	if !f.Props.Bool("open") {
		return ""
	}
	active := f.Props.String("activeCommand")
	state := s.state()
	items := MenuItems(s.Session.Commands, state, active, f.Props.Bool("flatten"))

	title := active
	if s.Session.Commands != nil {
		title = s.Session.Commands.ResolveLabel(active, state)
	}
	lines := []string{s.Styles.MenuTitle.Render(title)}
	if len(items) == 0 {
		lines = append(lines, s.Styles.Muted.Render("(empty)"))
	}

	cursor := s.MenuCursor()
	for i, it := range items {
		mark := "  "
		if it.Active {
			mark = "● "
		}
		label := strings.Repeat("  ", it.Depth) + mark + it.Label
		if it.Submenu {
			label += " ›"
		}
		style := s.Styles.MenuItem
		switch {
		case it.Disabled:
			style = s.Styles.MenuDisabled
		case i == cursor:
			style = s.Styles.MenuCursor
		}
		lines = append(lines, style.Render(label))
	}
	return s.Styles.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
