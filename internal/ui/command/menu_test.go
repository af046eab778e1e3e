package command

import (
	"testing"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// fakeMenus implements the command-menu state machine over a store.
type fakeMenus struct {
	st *store.Store
}

func (f *fakeMenus) ToggleCommandMenu(menuID, commandID, trigger, position string) {
	store.UpdateSlice(f.st, store.UIPlugin, func(prev store.UIState) store.UIState {
		menus := map[string]store.CommandMenuState{}
		for k, v := range prev.CommandMenus {
			menus[k] = v
		}
		cur := menus[menuID]
		if cur.Open && cur.ActiveCommand == commandID {
			menus[menuID] = store.CommandMenuState{}
		} else {
			menus[menuID] = store.CommandMenuState{Open: true, ActiveCommand: commandID, TriggerElement: trigger, Position: position}
		}
		prev.CommandMenus = menus
		return prev
	})
}

func (f *fakeMenus) CloseCommandMenu(menuID string) {
	store.UpdateSlice(f.st, store.UIPlugin, func(prev store.UIState) store.UIState {
		menus := map[string]store.CommandMenuState{}
		for k, v := range prev.CommandMenus {
			menus[k] = v
		}
		menus[menuID] = store.CommandMenuState{}
		prev.CommandMenus = menus
		return prev
	})
}

func menuFixture(t *testing.T) (*Registry, *store.Store, fakeCaps, *zoomer) {
	t.Helper()
	cmds := append(zoomCommands(),
		Command{ID: "menuCtr", Type: Menu, Children: []string{"changeZoomLevel", "zoomIn"}},
		Command{ID: "zoomIn", Action: zoomTo(1.1)},
		Command{ID: "locked", Action: zoomTo(9), Disabled: func(store.State) bool { return true }},
	)
	reg, err := NewRegistry(cmds)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	st := store.New(nil)
	z := &zoomer{}
	caps := fakeCaps{store.ZoomPlugin: z, store.UIPlugin: &fakeMenus{st: st}}
	return reg, st, caps, z
}

func TestTrigger_MenuDrillDown(t *testing.T) {
	reg, st, caps, _ := menuFixture(t)
	origin := Origin{Trigger: "zoomButton", Position: "bottom"}

	if err := reg.Trigger("menuCtr", caps, st.Snapshot(), origin); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	if !MenuActive(st.Snapshot(), DefaultMenuID, "menuCtr") {
		t.Fatal("Expected menuCtr to be the active command")
	}

	if err := reg.Trigger("changeZoomLevel", caps, st.Snapshot(), origin); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	ui, _ := store.Slice[store.UIState](st.Snapshot(), store.UIPlugin)
	menu := ui.CommandMenu(DefaultMenuID)
	if !menu.Open || menu.ActiveCommand != "changeZoomLevel" {
		t.Errorf("Expected open menu on changeZoomLevel, got %+v", menu)
	}
	if menu.TriggerElement != "zoomButton" || menu.Position != "bottom" {
		t.Errorf("Expected trigger and position to be recorded, got %+v", menu)
	}
	if MenuActive(st.Snapshot(), DefaultMenuID, "menuCtr") {
		t.Error("Parent menu should no longer be active after drilling down")
	}
}

func TestTrigger_LeafClosesMenu(t *testing.T) {
	reg, st, caps, z := menuFixture(t)

	_ = reg.Trigger("changeZoomLevel", caps, st.Snapshot(), Origin{})
	if err := reg.Trigger("zoom200", caps, st.Snapshot(), Origin{}); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if len(z.requested) != 1 || z.requested[0] != 2 {
		t.Errorf("Expected RequestZoom(2), got %v", z.requested)
	}
	ui, _ := store.Slice[store.UIState](st.Snapshot(), store.UIPlugin)
	if ui.CommandMenu(DefaultMenuID).Open {
		t.Error("Expected the command menu to close after a leaf action")
	}
	if MenuActive(st.Snapshot(), DefaultMenuID, "changeZoomLevel") {
		t.Error("Closed menu must not report an active command")
	}
}

func TestTrigger_SameMenuTwiceCloses(t *testing.T) {
	reg, st, caps, _ := menuFixture(t)

	_ = reg.Trigger("changeZoomLevel", caps, st.Snapshot(), Origin{})
	_ = reg.Trigger("changeZoomLevel", caps, st.Snapshot(), Origin{})

	ui, _ := store.Slice[store.UIState](st.Snapshot(), store.UIPlugin)
	if menu := ui.CommandMenu(DefaultMenuID); menu.Open || menu.ActiveCommand != "" {
		t.Errorf("Expected closed menu, got %+v", menu)
	}
}

func TestTrigger_DisabledIsInert(t *testing.T) {
	reg, st, caps, z := menuFixture(t)

	_ = reg.Trigger("changeZoomLevel", caps, st.Snapshot(), Origin{})
	if err := reg.Trigger("locked", caps, st.Snapshot(), Origin{}); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}

	if len(z.requested) != 0 {
		t.Errorf("Disabled command ran its action: %v", z.requested)
	}
	if !MenuActive(st.Snapshot(), DefaultMenuID, "changeZoomLevel") {
		t.Error("Disabled command must not close the open menu")
	}
}

func TestTrigger_WithoutUICapability(t *testing.T) {
	reg, _, _, z := menuFixture(t)
	caps := fakeCaps{store.ZoomPlugin: z}

	if err := reg.Trigger("changeZoomLevel", caps, store.State{}, Origin{}); err != nil {
		t.Errorf("Menu trigger without ui capability should be a no-op, got %v", err)
	}
	if err := reg.Trigger("zoom50", caps, store.State{}, Origin{}); err != nil {
		t.Errorf("Leaf trigger without ui capability failed: %v", err)
	}
	if len(z.requested) != 1 {
		t.Errorf("Expected the leaf action to run, got %v", z.requested)
	}
}

func TestMenuActive_MissingSlice(t *testing.T) {
	if MenuActive(store.State{}, DefaultMenuID, "anything") {
		t.Error("Expected false without a ui slice")
	}
}
