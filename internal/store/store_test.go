package store

import (
	"testing"
)

func TestSlice(t *testing.T) {
	s := State{Plugins: map[PluginID]any{
		ZoomPlugin: ZoomState{CurrentZoomLevel: 1.5},
	}}

	zoom, ok := Slice[ZoomState](s, ZoomPlugin)
	if !ok || zoom.CurrentZoomLevel != 1.5 {
		t.Errorf("Expected zoom slice with level 1.5, got %+v (ok=%v)", zoom, ok)
	}

	if _, ok := Slice[ScrollState](s, ScrollPlugin); ok {
		t.Error("Expected missing scroll slice to report ok=false")
	}
	if _, ok := Slice[ScrollState](s, ZoomPlugin); ok {
		t.Error("Expected mistyped slice to report ok=false")
	}
}

func TestStore_UpdateIsCopyOnWrite(t *testing.T) {
	st := New(nil)

	UpdateSlice(st, ZoomPlugin, func(prev ZoomState) ZoomState {
		prev.CurrentZoomLevel = 1
		return prev
	})
	before := st.Snapshot()

	UpdateSlice(st, ZoomPlugin, func(prev ZoomState) ZoomState {
		prev.CurrentZoomLevel = 2
		return prev
	})
	after := st.Snapshot()

	if z, _ := Slice[ZoomState](before, ZoomPlugin); z.CurrentZoomLevel != 1 {
		t.Errorf("Earlier snapshot changed: got level %v", z.CurrentZoomLevel)
	}
	if z, _ := Slice[ZoomState](after, ZoomPlugin); z.CurrentZoomLevel != 2 {
		t.Errorf("Expected level 2, got %v", z.CurrentZoomLevel)
	}
	if after.Version != before.Version+1 {
		t.Errorf("Expected version to advance by 1, got %d -> %d", before.Version, after.Version)
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	st := New(nil)

	var versions []uint64
	unsubscribe := st.Subscribe(func(s State) { versions = append(versions, s.Version) })

	st.UpdateCore(func(prev CoreState) CoreState {
		prev.Loaded = true
		return prev
	})
	if st.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", st.SubscriptionCount())
	}

	unsubscribe()
	st.UpdateCore(func(prev CoreState) CoreState { return prev })

	if len(versions) != 1 || versions[0] != 1 {
		t.Errorf("Expected one notification at version 1, got %v", versions)
	}
	if st.SubscriptionCount() != 0 {
		t.Errorf("Expected 0 subscriptions, got %d", st.SubscriptionCount())
	}
}

func TestStore_ReentrantUpdateIsQueued(t *testing.T) {
	st := New(nil)

	var seen []uint64
	st.Subscribe(func(s State) {
		seen = append(seen, s.Version)
		if s.Version == 1 {
			// Nested update from inside a notification.
			UpdateSlice(st, ScrollPlugin, func(prev ScrollState) ScrollState {
				prev.CurrentPage = 2
				return prev
			})
			if len(seen) != 1 {
				t.Error("Nested update must not notify before the current handler returns")
			}
		}
	})

	UpdateSlice(st, ScrollPlugin, func(prev ScrollState) ScrollState {
		prev.CurrentPage = 1
		return prev
	})

	if len(seen) != 2 || seen[1] != 2 {
		t.Errorf("Expected notifications for versions [1 2], got %v", seen)
	}
}

func TestStore_Close(t *testing.T) {
	st := New(nil)
	calls := 0
	st.Subscribe(func(State) { calls++ })

	st.Close()
	st.UpdateCore(func(prev CoreState) CoreState {
		prev.Loaded = true
		return prev
	})

	if calls != 0 {
		t.Errorf("Expected no notifications after Close, got %d", calls)
	}
	if st.Snapshot().Core.Loaded {
		t.Error("Updates after Close must be ignored")
	}
	if st.SubscriptionCount() != 0 {
		t.Errorf("Expected Close to drop subscriptions, got %d", st.SubscriptionCount())
	}
}

func TestUIState_Accessors(t *testing.T) {
	ui := UIState{
		Panels:       map[string]PanelState{"leftPanel": {Open: true, VisibleChild: "leftPanelMain"}},
		CommandMenus: map[string]CommandMenuState{},
		Custom:       map[string]map[string]any{"leftPanelMain": {"visibleChild": "thumbnails"}},
	}

	if !ui.Panel("leftPanel").Open {
		t.Error("Expected leftPanel to be open")
	}
	if ui.Panel("rightPanel").Open {
		t.Error("Unknown panel should be closed")
	}
	if ui.CommandMenu("commandMenu").Open {
		t.Error("Unknown command menu should be closed")
	}
	if v, ok := ui.CustomValue("leftPanelMain", "visibleChild"); !ok || v != "thumbnails" {
		t.Errorf("Expected custom visibleChild=thumbnails, got %v", v)
	}
	if _, ok := ui.CustomValue("missing", "x"); ok {
		t.Error("Expected missing custom node to report ok=false")
	}
}

func TestVariantKey(t *testing.T) {
	if got := VariantKey(SubtypeHighlight, ""); got != "Highlight" {
		t.Errorf("VariantKey() = %q", got)
	}
	if got := VariantKey(SubtypeHighlight, "review"); got != "Highlight#review" {
		t.Errorf("VariantKey() = %q", got)
	}
}
