package plugin

import (
	"maps"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// PanelToggle requests a panel change.
type PanelToggle struct {
	ID           string
	VisibleChild string
	// Open forces the open flag. When nil the panel closes only if it is
	// already open showing VisibleChild, and opens otherwise.
	Open *bool
}

// UI is the ui capability. It owns panel, command-menu and custom node
// state, and the renderer-dispatch table.
type UI struct {
	rt *Runtime
}

func newUI(rt *Runtime) *UI {
	return &UI{rt: rt}
}

func (u *UI) init() {
	update(u.rt, store.UIPlugin, func(store.UIState) store.UIState {
		return store.UIState{
			Panels:       map[string]store.PanelState{},
			CommandMenus: map[string]store.CommandMenuState{},
			Custom:       map[string]map[string]any{},
		}
	})
}

// RegisterComponentRenderer binds a render key to a renderer.
func (u *UI) RegisterComponentRenderer(key string, r component.Renderer) {
	u.rt.renderers.Register(key, r)
}

// TogglePanel applies t to its panel. Opening a panel that shows a different
// child switches the child without closing.
func (u *UI) TogglePanel(t PanelToggle) {
	u.updatePanels(func(panels map[string]store.PanelState) {
		cur := panels[t.ID]
		open := !(cur.Open && cur.VisibleChild == t.VisibleChild)
		if t.Open != nil {
			open = *t.Open
		}
		child := t.VisibleChild
		if child == "" {
			child = cur.VisibleChild
		}
		panels[t.ID] = store.PanelState{Open: open, VisibleChild: child}
	})
}

// SetPanel sets a panel's state directly.
func (u *UI) SetPanel(id string, state store.PanelState) {
	u.updatePanels(func(panels map[string]store.PanelState) {
		panels[id] = state
	})
}

func (u *UI) updatePanels(fn func(map[string]store.PanelState)) {
	update(u.rt, store.UIPlugin, func(prev store.UIState) store.UIState {
		prev.Panels = maps.Clone(prev.Panels)
		if prev.Panels == nil {
			prev.Panels = make(map[string]store.PanelState)
		}
		fn(prev.Panels)
		return prev
	})
}

// ToggleCommandMenu opens menuID on commandID, switches it to commandID when
// it shows another command, and closes it when it already shows commandID.
func (u *UI) ToggleCommandMenu(menuID, commandID, trigger, position string) {
	u.updateMenus(func(menus map[string]store.CommandMenuState) {
		cur := menus[menuID]
		if cur.Open && cur.ActiveCommand == commandID {
			menus[menuID] = store.CommandMenuState{}
			return
		}
		menus[menuID] = store.CommandMenuState{
			Open:           true,
			ActiveCommand:  commandID,
			TriggerElement: trigger,
			Position:       position,
		}
	})
}

// CloseCommandMenu closes menuID and clears its active command.
func (u *UI) CloseCommandMenu(menuID string) {
	if !u.State().CommandMenu(menuID).Open {
		return
	}
	u.updateMenus(func(menus map[string]store.CommandMenuState) {
		menus[menuID] = store.CommandMenuState{}
	})
}

func (u *UI) updateMenus(fn func(map[string]store.CommandMenuState)) {
	update(u.rt, store.UIPlugin, func(prev store.UIState) store.UIState {
		prev.CommandMenus = maps.Clone(prev.CommandMenus)
		if prev.CommandMenus == nil {
			prev.CommandMenus = make(map[string]store.CommandMenuState)
		}
		fn(prev.CommandMenus)
		return prev
	})
}

// SetCustom sets a custom state field of a node.
func (u *UI) SetCustom(nodeID, key string, value any) {
	update(u.rt, store.UIPlugin, func(prev store.UIState) store.UIState {
		prev.Custom = maps.Clone(prev.Custom)
		if prev.Custom == nil {
			prev.Custom = make(map[string]map[string]any)
		}
		fields := maps.Clone(prev.Custom[nodeID])
		if fields == nil {
			fields = make(map[string]any)
		}
		fields[key] = value
		prev.Custom[nodeID] = fields
		return prev
	})
}

// State returns the ui slice.
func (u *UI) State() store.UIState {
	return slice[store.UIState](u.rt, store.UIPlugin)
}
