package projector

import (
	"slices"
	"testing"

	"github.com/Iron-Ham/pdfcontainer/internal/event"
	"github.com/Iron-Ham/pdfcontainer/internal/metrics"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

func zoomLevel(s store.State) float64 {
	z, _ := store.Slice[store.ZoomState](s, store.ZoomPlugin)
	return z.CurrentZoomLevel
}

func testNodes() []component.Node {
	return []component.Node{
		{
			ID:    "topHeader",
			Type:  component.TypeHeader,
			Props: component.Props{"placement": "top"},
			Slots: []component.Slot{{ComponentID: "group"}},
			ChildContextFunc: func(p component.Props) component.Context {
				return component.Context{"direction": "horizontal"}
			},
		},
		{
			ID:    "group",
			Type:  component.TypeGroupedItems,
			Props: component.Props{"gap": 10},
			Slots: []component.Slot{
				{ComponentID: "zoom", Priority: 1},
				{ComponentID: "download", Priority: 0},
				{ComponentID: "broken", Priority: 2},
			},
		},
		{
			ID:     "zoom",
			Type:   component.TypeCustom,
			Render: "zoom",
			Props:  component.Props{"zoomLevel": 1.0},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				if _, ok := store.Slice[store.ZoomState](s, store.ZoomPlugin); !ok {
					return own
				}
				return own.With("zoomLevel", zoomLevel(s))
			},
		},
		{ID: "download", Type: component.TypeIconButton, Props: component.Props{"commandId": "download"}},
		{
			ID:   "broken",
			Type: component.TypeIconButton,
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				if zoomLevel(s) == 2 {
					panic("boom")
				}
				return own
			},
		},
	}
}

func newFixture(t *testing.T, opts ...Option) (*store.Store, *component.Tree, *Projector) {
	t.Helper()
	reg, err := component.NewRegistry(testNodes())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	tree := component.NewTree(reg, nil)
	return store.New(nil), tree, New(tree, opts...)
}

func setZoom(st *store.Store, level float64) {
	store.UpdateSlice(st, store.ZoomPlugin, func(prev store.ZoomState) store.ZoomState {
		prev.CurrentZoomLevel = level
		return prev
	})
}

func TestProjector_AttachMountsReachableTree(t *testing.T) {
	st, tree, p := newFixture(t)

	res := p.Attach(st)
	want := []string{"broken", "download", "group", "topHeader", "zoom"}
	if got := tree.IDs(); !slices.Equal(got, want) {
		t.Errorf("Expected mounted %v, got %v", want, got)
	}
	if len(res.Mounted) != 5 || len(res.Changed) != 5 {
		t.Errorf("Expected 5 mounted and changed nodes, got %+v", res)
	}
	if st.SubscriptionCount() != 1 {
		t.Errorf("Expected 1 subscription, got %d", st.SubscriptionCount())
	}

	inst, _ := tree.Instance("zoom")
	if inst.Context.String("direction") != "horizontal" {
		t.Errorf("Expected inherited header context, got %v", inst.Context)
	}
}

func TestProjector_OnlyChangedPropsAreFlagged(t *testing.T) {
	var passes []Result
	st, tree, p := newFixture(t, OnPass(func(r Result) { passes = append(passes, r) }))
	p.Attach(st)

	setZoom(st, 1.5)
	last := passes[len(passes)-1]
	if !slices.Equal(last.Changed, []string{"zoom"}) {
		t.Errorf("Expected only zoom to change, got %v", last.Changed)
	}
	inst, _ := tree.Instance("zoom")
	if inst.Props.Float("zoomLevel") != 1.5 {
		t.Errorf("Expected zoomLevel 1.5, got %v", inst.Props)
	}

	store.UpdateSlice(st, store.HistoryPlugin, func(prev store.HistoryState) store.HistoryState {
		prev.CanUndo = true
		return prev
	})
	if last := passes[len(passes)-1]; last.Dirty() {
		t.Errorf("Unrelated update should not flag nodes, got %+v", last)
	}
}

func TestProjector_FailuresAreIsolated(t *testing.T) {
	bus := event.NewBus(nil)
	var failed []string
	bus.Subscribe(event.TypeNodeFailed, func(e event.Event) {
		failed = append(failed, e.(event.NodeFailedEvent).NodeID)
	})
	collectors := metrics.New()

	st, tree, p := newFixture(t, WithEvents(bus), WithMetrics(collectors))
	p.Attach(st)
	setZoom(st, 2)

	res := p.Last()
	if !slices.Equal(res.Failed, []string{"broken"}) {
		t.Errorf("Expected broken to fail, got %v", res.Failed)
	}
	if !slices.Contains(res.Changed, "zoom") || !slices.Contains(res.Changed, "broken") {
		t.Errorf("Expected zoom and broken flagged, got %v", res.Changed)
	}
	if inst, _ := tree.Instance("zoom"); inst.Props.Float("zoomLevel") != 2 {
		t.Error("Sibling projection should still apply")
	}
	if inst, _ := tree.Instance("broken"); inst.Err == nil {
		t.Error("Expected failed node to carry its error")
	}
	if !slices.Equal(failed, []string{"broken"}) {
		t.Errorf("Expected node failure event, got %v", failed)
	}

	setZoom(st, 1)
	if inst, _ := tree.Instance("broken"); inst.Err != nil {
		t.Errorf("Expected node to recover on next pass, got %v", inst.Err)
	}
	if !slices.Contains(p.Last().Changed, "broken") {
		t.Error("Recovered node should be flagged for re-render")
	}
}

func TestProjector_UnmountsUnreachable(t *testing.T) {
	st, tree, p := newFixture(t, WithRoots("topHeader"))
	p.Attach(st)

	p2 := New(tree, WithRoots("download"))
	res := p2.Pass(st.Snapshot())
	want := []string{"broken", "group", "topHeader", "zoom"}
	if !slices.Equal(res.Unmounted, want) {
		t.Errorf("Expected unmounted %v, got %v", want, res.Unmounted)
	}
	if tree.Len() != 1 {
		t.Errorf("Expected only download mounted, got %v", tree.IDs())
	}
}

func TestProjector_DetachReleasesSubscription(t *testing.T) {
	st, _, p := newFixture(t)
	var count int
	p.onPass = func(Result) { count++ }

	p.Attach(st)
	p.Attach(st)
	if st.SubscriptionCount() != 1 {
		t.Errorf("Re-attaching should replace the subscription, got %d", st.SubscriptionCount())
	}

	p.Detach()
	if st.SubscriptionCount() != 0 || p.Attached() {
		t.Errorf("Expected no subscriptions after Detach, got %d", st.SubscriptionCount())
	}
	before := count
	setZoom(st, 1.5)
	if count != before {
		t.Error("Detached projector must not run passes")
	}
}

func TestProjector_PassesDoNotOverlap(t *testing.T) {
	var (
		depth, maxDepth int
		versions        []uint64
	)
	st, _, p := newFixture(t)
	p.onPass = func(r Result) {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		versions = append(versions, r.Version)
		if r.Version == 1 {
			// An update issued from inside a pass is queued behind it.
			setZoom(st, 2)
		}
		depth--
	}
	p.Attach(st)
	setZoom(st, 1.5)

	if maxDepth != 1 {
		t.Errorf("Expected passes to never nest, max depth %d", maxDepth)
	}
	if !slices.Equal(versions, []uint64{0, 1, 2}) {
		t.Errorf("Expected passes for versions [0 1 2] in order, got %v", versions)
	}
}

func TestProjector_ReentrantPassIsQueued(t *testing.T) {
	st, _, p := newFixture(t)
	var (
		versions []uint64
		queued   Result
	)
	p.onPass = func(r Result) {
		versions = append(versions, r.Version)
		if r.Version == 0 {
			queued = p.Pass(store.State{Version: 7})
		}
	}

	res := p.Pass(st.Snapshot())
	if len(queued.Changed) != 0 || queued.Version != 0 {
		t.Errorf("Expected queued pass to return an empty result, got %+v", queued)
	}
	if !slices.Equal(versions, []uint64{0, 7}) {
		t.Errorf("Expected queued pass to run after the first, got %v", versions)
	}
	if res.Version != 7 || p.Last().Version != 7 {
		t.Errorf("Expected the final result to be the queued pass, got %d", res.Version)
	}
}
