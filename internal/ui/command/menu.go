package command

import (
	"fmt"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// MenuController is implemented by the ui capability. It owns the
// command-menu state machine:
//
//	closed --open(cmd)--> open(active=cmd)
//	open(active=A) --open(B), B != A--> open(active=B)
//	open(active=A) --open(A)--> closed
//	open(*) --close--> closed
//
// Closing an already closed menu has no effect.
type MenuController interface {
	ToggleCommandMenu(menuID, commandID, trigger, position string)
	CloseCommandMenu(menuID string)
}

// DefaultMenuID is the id of the command-menu node in the viewer layout.
const DefaultMenuID = "commandMenu"

// Origin describes where a command was triggered from.
type Origin struct {
	// MenuID is the command-menu node affected; DefaultMenuID when empty.
	MenuID string
	// Trigger is the id of the node that was activated.
	Trigger string
	// Position is the preferred side for the menu to open on.
	Position string
}

// Trigger is the user-interaction entry point. Menu commands toggle the
// command menu (drilling into a child menu replaces the active command), leaf
// actions run and then close an open menu, and disabled commands are inert.
func (r *Registry) Trigger(id string, caps Capabilities, state store.State, origin Origin) error {
	c, ok := r.commands[id]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownCommand, id)
	}
	if r.IsDisabled(id, state) {
		return nil
	}

	menuID := origin.MenuID
	if menuID == "" {
		menuID = DefaultMenuID
	}
	menus := menuController(caps)

	if c.Type == Menu {
		if menus != nil {
			menus.ToggleCommandMenu(menuID, id, origin.Trigger, origin.Position)
		}
		return nil
	}

	err := r.Invoke(id, caps, state)
	if menus != nil && menuOpen(state, menuID) {
		menus.CloseCommandMenu(menuID)
	}
	return err
}

func menuController(caps Capabilities) MenuController {
	if caps == nil {
		return nil
	}
	provider, ok := caps.Capability(store.UIPlugin)
	if !ok {
		return nil
	}
	menus, _ := provider.(MenuController)
	return menus
}

func menuOpen(state store.State, menuID string) bool {
	ui, ok := store.Slice[store.UIState](state, store.UIPlugin)
	return ok && ui.CommandMenu(menuID).Open
}

// MenuActive reports whether menuID's activeCommand equals commandID. Menu
// commands use it for their Active derivation; closing a menu clears its
// activeCommand, so a closed menu is never active.
func MenuActive(state store.State, menuID, commandID string) bool {
	ui, ok := store.Slice[store.UIState](state, store.UIPlugin)
	if !ok || commandID == "" {
		return false
	}
	return ui.CommandMenu(menuID).ActiveCommand == commandID
}
