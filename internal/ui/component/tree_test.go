package component

import (
	"testing"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

func pageControlsNode() Node {
	return Node{
		ID:           "pageControls",
		Type:         TypeCustom,
		Render:       "pageControls",
		InitialState: map[string]any{"currentPage": 1, "pageCount": 1},
		PropsFunc: func(initial map[string]any) Props {
			return Props{
				"currentPage":       initial["currentPage"],
				"pageCount":         initial["pageCount"],
				"nextPageCommandId": "nextPage",
			}
		},
		MapStateToProps: func(s store.State, own Props) Props {
			scroll, ok := store.Slice[store.ScrollState](s, store.ScrollPlugin)
			if !ok {
				return own
			}
			return own.With("currentPage", scroll.CurrentPage, "pageCount", scroll.TotalPages)
		},
	}
}

func scrollState(page, total int) store.State {
	return store.State{Plugins: map[store.PluginID]any{
		store.ScrollPlugin: store.ScrollState{CurrentPage: page, TotalPages: total},
	}}
}

func TestTree_MountSeedsFromInitialState(t *testing.T) {
	reg, err := NewRegistry([]Node{pageControlsNode()})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	tree := NewTree(reg, nil)

	inst, err := tree.Mount("pageControls", store.State{}, nil)
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if inst.Props.Int("currentPage") != 1 || inst.Props.String("nextPageCommandId") != "nextPage" {
		t.Errorf("Expected props seeded from initial state, got %v", inst.Props)
	}
	if inst.Local["pageCount"] != 1 {
		t.Errorf("Expected local state from InitialState, got %v", inst.Local)
	}
}

func TestTree_MountIsKeyedByID(t *testing.T) {
	reg, _ := NewRegistry([]Node{pageControlsNode()})
	tree := NewTree(reg, nil)

	first, _ := tree.Mount("pageControls", scrollState(2, 10), Context{"direction": "horizontal"})
	second, _ := tree.Mount("pageControls", scrollState(5, 10), nil)

	if second.Props.Int("currentPage") != first.Props.Int("currentPage") {
		t.Error("Remounting a mounted id should return the existing instance")
	}
	if second.Context.String("direction") != "horizontal" {
		t.Error("Existing instance context should be preserved")
	}
	if tree.Len() != 1 {
		t.Errorf("Expected 1 instance, got %d", tree.Len())
	}
}

func TestTree_ProjectIsPure(t *testing.T) {
	reg, _ := NewRegistry([]Node{pageControlsNode()})
	tree := NewTree(reg, nil)
	_, _ = tree.Mount("pageControls", store.State{}, nil)

	props, err := tree.Project("pageControls", scrollState(3, 9))
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if props.Int("currentPage") != 3 || props.Int("pageCount") != 9 {
		t.Errorf("Expected projected page 3/9, got %v", props)
	}

	inst, _ := tree.Instance("pageControls")
	if inst.Props.Int("currentPage") != 1 {
		t.Error("Project must not change committed props")
	}
	if inst.Base.Int("currentPage") != 1 {
		t.Error("Project must not change base props")
	}

	tree.Commit("pageControls", props, nil, nil)
	inst, _ = tree.Instance("pageControls")
	if inst.Props.Int("currentPage") != 3 {
		t.Errorf("Expected committed page 3, got %v", inst.Props)
	}
}

func TestTree_ProjectUnmounted(t *testing.T) {
	reg, _ := NewRegistry([]Node{pageControlsNode()})
	tree := NewTree(reg, nil)

	if _, err := tree.Project("pageControls", store.State{}); !errors.Is(err, errors.ErrUnknownComponent) {
		t.Errorf("Expected ErrUnknownComponent, got %v", err)
	}
	if _, err := tree.Mount("nope", store.State{}, nil); !errors.Is(err, errors.ErrUnknownComponent) {
		t.Errorf("Expected ErrUnknownComponent, got %v", err)
	}
}

func TestTree_PanickingProjectionIsIsolated(t *testing.T) {
	reg, _ := NewRegistry([]Node{
		{ID: "broken", Type: TypeCustom, MapStateToProps: func(store.State, Props) Props { panic("boom") }},
		pageControlsNode(),
	})
	tree := NewTree(reg, nil)

	inst, err := tree.Mount("broken", store.State{}, nil)
	if !errors.Is(err, errors.ErrNodePanic) {
		t.Fatalf("Expected ErrNodePanic, got %v", err)
	}
	if inst.Err == nil || !tree.Mounted("broken") {
		t.Error("Failed node should still be mounted with Err set")
	}

	if _, err := tree.Mount("pageControls", store.State{}, nil); err != nil {
		t.Errorf("Sibling mount should be unaffected, got %v", err)
	}
}

func TestTree_ChildContext(t *testing.T) {
	reg, _ := NewRegistry([]Node{
		{
			ID:    "topHeader",
			Type:  TypeHeader,
			Props: Props{"placement": "top"},
			ChildContextFunc: func(p Props) Context {
				if p.String("placement") == "top" || p.String("placement") == "bottom" {
					return Context{"direction": "horizontal"}
				}
				return Context{"direction": "vertical"}
			},
			Slots: []Slot{{ComponentID: "menu"}},
		},
		{ID: "menu", Type: TypeFloating, ChildContext: Context{"direction": "vertical", "inset": true}},
	})
	tree := NewTree(reg, nil)
	_, _ = tree.Mount("topHeader", store.State{}, Context{"theme": "dark"})

	ctx := tree.ChildContext("topHeader")
	if ctx.String("direction") != "horizontal" || ctx.String("theme") != "dark" {
		t.Errorf("Expected merged header context, got %v", ctx)
	}

	_, _ = tree.Mount("menu", store.State{}, ctx)
	inner := tree.ChildContext("menu")
	if inner.String("direction") != "vertical" || inner["inset"] != true || inner.String("theme") != "dark" {
		t.Errorf("Expected descendant to override ancestor, got %v", inner)
	}
}

func TestTree_UnmountAndClear(t *testing.T) {
	reg, _ := NewRegistry([]Node{pageControlsNode(), leaf("b")})
	tree := NewTree(reg, nil)
	_, _ = tree.Mount("pageControls", store.State{}, nil)
	_, _ = tree.Mount("b", store.State{}, nil)

	if !tree.Unmount("b") || tree.Unmount("b") {
		t.Error("Unmount should report whether the instance existed")
	}
	tree.Clear()
	if tree.Len() != 0 {
		t.Errorf("Expected empty tree, got %v", tree.IDs())
	}
}

var errBoom = errors.New("boom")
