package plugin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func testDocument() *engine.Document {
	return &engine.Document{
		ID:   "doc-1",
		Name: "A.pdf",
		Pages: []engine.Page{
			{Index: 0, Text: "The quick brown fox jumps over the lazy dog."},
			{Index: 1, Text: "Foxes are quick. A fox is not a foxhound."},
			{Index: 2, Text: ""},
		},
		Annotations: []engine.Annotation{
			{Page: 1, Subtype: "Highlight", Color: []float64{1, 0, 0}, Contents: "note"},
			{Page: 0, Subtype: "Link", URI: "https://example.com"},
		},
		Data: []byte("%PDF-1.7 fixture"),
	}
}

func bootRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	st := store.New(logging.NopLogger())
	rt := New(st, opts...)
	cfg := DefaultConfig()
	cfg.ExportDir = t.TempDir()
	rt.Boot(testDocument(), cfg)
	t.Cleanup(rt.Teardown)
	return rt
}

func mustGet[T any](t *testing.T, rt *Runtime, id store.PluginID) T {
	t.Helper()
	p, ok := Get[T](rt, id)
	require.True(t, ok, "capability %s not registered", id)
	return p
}

func TestRuntime_BootSeedsSlices(t *testing.T) {
	rt := bootRuntime(t)
	snap := rt.Store().Snapshot()

	require.NotNil(t, snap.Core.Document)
	assert.Equal(t, 3, snap.Core.Document.PageCount)
	assert.True(t, snap.Core.Loaded)

	for _, id := range []store.PluginID{
		store.ZoomPlugin, store.ScrollPlugin, store.SearchPlugin, store.SelectionPlugin,
		store.AnnotationPlugin, store.HistoryPlugin, store.ViewportPlugin,
		store.InteractionPlugin, store.ExportPlugin, store.UIPlugin,
	} {
		_, ok := snap.Plugins[id]
		assert.True(t, ok, "slice %s missing", id)
	}

	zoom, _ := store.Slice[store.ZoomState](snap, store.ZoomPlugin)
	assert.Equal(t, ZoomModeFitPage, zoom.Mode)
	scroll, _ := store.Slice[store.ScrollState](snap, store.ScrollPlugin)
	assert.Equal(t, store.ScrollState{CurrentPage: 1, TotalPages: 3, Strategy: "vertical"}, scroll)
	mode, _ := store.Slice[store.InteractionState](snap, store.InteractionPlugin)
	assert.Equal(t, ModePointer, mode.Mode)
}

func TestRuntime_BootWithoutDocument(t *testing.T) {
	rt := New(store.New(nil))
	rt.Boot(nil, Config{})
	defer rt.Teardown()

	_, ok := Get[*UI](rt, store.UIPlugin)
	assert.True(t, ok)
	_, ok = Get[*Zoom](rt, store.ZoomPlugin)
	assert.False(t, ok, "document plugins should not boot without a document")
}

func TestRuntime_TeardownDropsCapabilities(t *testing.T) {
	rt := bootRuntime(t)
	zoom := mustGet[*Zoom](t, rt, store.ZoomPlugin)

	rt.Teardown()
	rt.Teardown()

	_, ok := rt.Capability(store.ZoomPlugin)
	assert.False(t, ok)
	assert.True(t, rt.Store().Closed())

	// Late calls through a held provider are no-ops.
	zoom.RequestZoom(2)
	assert.Equal(t, 0, rt.Store().SubscriptionCount())
}

func TestRuntime_ImplementsCapabilities(t *testing.T) {
	var _ command.Capabilities = (*Runtime)(nil)
	var _ command.MenuController = (*UI)(nil)

	var nilRuntime *Runtime
	_, ok := Get[*Zoom](nilRuntime, store.ZoomPlugin)
	assert.False(t, ok)
}

func TestZoom(t *testing.T) {
	rt := bootRuntime(t)
	zoom := mustGet[*Zoom](t, rt, store.ZoomPlugin)

	zoom.ZoomIn()
	assert.Equal(t, store.ZoomState{CurrentZoomLevel: 1.25}, zoom.State())

	zoom.RequestZoom(0.5)
	zoom.ZoomOut()
	assert.Equal(t, 0.25, zoom.State().CurrentZoomLevel)
	zoom.ZoomOut()
	assert.Equal(t, 0.25, zoom.State().CurrentZoomLevel, "zoom out below the smallest level")

	zoom.RequestZoom(4)
	zoom.ZoomIn()
	assert.Equal(t, 4.0, zoom.State().CurrentZoomLevel, "zoom in above the largest level")
	assert.Equal(t, 4.0, rt.Store().Snapshot().Core.Scale)

	zoom.RequestZoom(0)
	assert.Equal(t, 4.0, zoom.State().CurrentZoomLevel, "non-positive levels are ignored")
}

func TestZoom_NumericDefault(t *testing.T) {
	rt := New(store.New(nil))
	cfg := DefaultConfig()
	cfg.DefaultZoom = "1.5"
	rt.Boot(testDocument(), cfg)
	defer rt.Teardown()

	assert.Equal(t, store.ZoomState{CurrentZoomLevel: 1.5}, mustGet[*Zoom](t, rt, store.ZoomPlugin).State())
}

func TestScroll(t *testing.T) {
	rt := bootRuntime(t)
	scroll := mustGet[*Scroll](t, rt, store.ScrollPlugin)

	scroll.ScrollToPreviousPage()
	assert.Equal(t, 1, scroll.State().CurrentPage)

	scroll.ScrollToNextPage()
	scroll.ScrollToNextPage()
	scroll.ScrollToNextPage()
	assert.Equal(t, 3, scroll.State().CurrentPage)

	scroll.ScrollToPage(2)
	assert.Equal(t, 2, scroll.State().CurrentPage)
}

func TestFindAll(t *testing.T) {
	text := "Fox fox FOX foxhound"

	tests := []struct {
		name    string
		query   string
		flags   []store.SearchFlag
		offsets []int
	}{
		{"case insensitive", "fox", nil, []int{0, 4, 8, 12}},
		{"match case", "fox", []store.SearchFlag{store.SearchMatchCase}, []int{4, 12}},
		{"whole word", "fox", []store.SearchFlag{store.SearchWholeWord}, []int{0, 4, 8}},
		{"wildcard", "fox*", []store.SearchFlag{store.SearchWildcard}, []int{0, 4, 8, 12}},
		{"wildcard single", "f?x", []store.SearchFlag{store.SearchWildcard, store.SearchMatchCase}, []int{4}},
		{"no hit", "cat", nil, nil},
		{"empty query", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, r := range FindAll(text, 0, tt.query, tt.flags) {
				got = append(got, r.Offset)
			}
			assert.Equal(t, tt.offsets, got)
		})
	}
}

func TestFindAll_RuneOffsetsAndExcerpt(t *testing.T) {
	results := FindAll("héllo wörld", 4, "wörld", nil)
	require.Len(t, results, 1)
	assert.Equal(t, store.SearchResult{PageIndex: 4, Offset: 6, Length: 5, Excerpt: "héllo wörld"}, results[0])
}

func TestSearch_Navigation(t *testing.T) {
	rt := bootRuntime(t)
	search := mustGet[*Search](t, rt, store.SearchPlugin)
	scroll := mustGet[*Scroll](t, rt, store.ScrollPlugin)

	n := search.SearchAllPages("fox")
	assert.Equal(t, 4, n)
	st := search.State()
	assert.True(t, st.Active)
	assert.Equal(t, 0, st.ActiveResultIndex)

	search.NextResult()
	assert.Equal(t, 1, search.State().ActiveResultIndex)
	assert.Equal(t, 2, scroll.State().CurrentPage)

	search.PreviousResult()
	search.PreviousResult()
	assert.Equal(t, 3, search.State().ActiveResultIndex, "previous wraps to the last hit")

	search.ToggleFlag(store.SearchWholeWord)
	assert.Equal(t, 2, search.State().Total)

	search.StopSearch()
	st = search.State()
	assert.False(t, st.Active)
	assert.Empty(t, st.Results)
	assert.Equal(t, -1, st.ActiveResultIndex)
	assert.Equal(t, []store.SearchFlag{store.SearchWholeWord}, st.Flags)
}

func TestSelection(t *testing.T) {
	clip := &fakeClipboard{}
	rt := bootRuntime(t, WithClipboard(clip))
	sel := mustGet[*Selection](t, rt, store.SelectionPlugin)

	sel.Begin(Position{Page: 1, Offset: 6})
	assert.True(t, sel.State().Selecting)
	sel.Update(Position{Page: 0, Offset: 40})
	sel.End()

	st := sel.State()
	assert.True(t, st.Active)
	assert.False(t, st.Selecting)
	assert.Equal(t, []store.TextRange{
		{PageIndex: 0, Start: 40, End: 44},
		{PageIndex: 1, Start: 0, End: 6},
	}, sel.GetFormattedSelection())

	var texts []string
	sel.GetSelectedText().Wait(func(v []string) { texts = v }, nil)
	assert.Equal(t, []string{"dog.", "Foxes "}, texts)

	require.NoError(t, sel.CopyToClipboard())
	assert.Equal(t, "dog.\nFoxes ", clip.text)

	sel.Clear()
	assert.False(t, sel.State().Active)
}

func TestSelection_CopyFailureIsRecorded(t *testing.T) {
	var buf bytes.Buffer
	clip := &fakeClipboard{err: errors.New("no clipboard utility found")}
	rt := bootRuntime(t, WithClipboard(clip), WithLogger(logging.NewWriterLogger(&buf, "debug")))
	sel := mustGet[*Selection](t, rt, store.SelectionPlugin)

	sel.Select(store.TextRange{PageIndex: 0, Start: 4, End: 9})
	err := sel.CopyToClipboard()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clipboard utility found")
	assert.Equal(t, "no clipboard utility found", sel.State().CopyError)
	assert.Contains(t, buf.String(), "copy to clipboard failed")

	clip.err = nil
	require.NoError(t, sel.CopyToClipboard())
	assert.Equal(t, "quick", clip.text)
	assert.Empty(t, sel.State().CopyError)
}

func TestAnnotation_ImportAndDefaults(t *testing.T) {
	rt := bootRuntime(t)
	ann := mustGet[*Annotation](t, rt, store.AnnotationPlugin)

	imported := ann.State().Pages[1]
	require.Len(t, imported, 1)
	assert.True(t, imported[0].Imported)
	assert.Equal(t, "#ff0000", imported[0].Color)
	assert.Empty(t, ann.State().Pages[0], "link annotations are not imported")

	assert.Equal(t, DefaultToolColor, ann.GetToolDefaults("Highlight").Color)
	assert.Equal(t, DefaultToolColor, ann.GetToolDefaults("Squiggly").Color)

	ann.SetToolDefaults("Highlight", store.ToolDefaults{Color: "#00ff00", Opacity: 0.5})
	assert.Equal(t, "#00ff00", ann.GetToolDefaults("Highlight").Color)

	ann.SetActiveVariant("Highlight")
	assert.Equal(t, "Highlight", ann.ActiveVariant())
	ann.SetActiveVariant("")
	assert.Empty(t, ann.ActiveVariant())
}

func TestAnnotation_HistoryRoundTrip(t *testing.T) {
	rt := bootRuntime(t)
	ann := mustGet[*Annotation](t, rt, store.AnnotationPlugin)
	history := mustGet[*History](t, rt, store.HistoryPlugin)
	canUndo := func() store.HistoryState {
		return slice[store.HistoryState](rt, store.HistoryPlugin)
	}

	created := ann.CreateAnnotation(store.Annotation{
		PageIndex: 0,
		Subtype:   store.SubtypeHighlight,
		Range:     store.TextRange{PageIndex: 0, Start: 4, End: 9},
	})
	require.NotEmpty(t, created.ID)
	ann.SelectAnnotation(0, created.ID)
	got, ok := ann.Selected()
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, store.HistoryState{CanUndo: true}, canUndo())

	history.Undo()
	assert.Empty(t, ann.State().Pages[0])
	_, ok = ann.Selected()
	assert.False(t, ok, "undoing a create drops the selection")
	assert.Equal(t, store.HistoryState{CanRedo: true}, canUndo())

	history.Redo()
	assert.Len(t, ann.State().Pages[0], 1)

	ann.DeleteAnnotation(0, created.ID)
	assert.Empty(t, ann.State().Pages[0])
	history.Undo()
	assert.Len(t, ann.State().Pages[0], 1)

	ann.SelectAnnotation(0, "missing")
	assert.Nil(t, ann.State().Selected)
}

func TestExport_Download(t *testing.T) {
	rt := bootRuntime(t)
	export := mustGet[*Export](t, rt, store.ExportPlugin)

	path, err := export.Download()
	require.NoError(t, err)
	assert.Equal(t, "A.pdf", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fixture", string(data))
	assert.Equal(t, path, slice[store.ExportState](rt, store.ExportPlugin).LastPath)
}

func TestExport_NoDocument(t *testing.T) {
	rt := New(store.New(nil))
	export := &Export{rt: rt, dir: t.TempDir()}

	_, err := export.Download()
	assert.True(t, errors.IsNotReady(err))
}

func TestViewportAndInteraction(t *testing.T) {
	rt := bootRuntime(t)
	mustGet[*Viewport](t, rt, store.ViewportPlugin).SetSize(80, 24)
	mustGet[*Viewport](t, rt, store.ViewportPlugin).SetScrolling(true)
	assert.Equal(t, store.ViewportState{Width: 80, Height: 24, IsScrolling: true},
		slice[store.ViewportState](rt, store.ViewportPlugin))

	interaction := mustGet[*Interaction](t, rt, store.InteractionPlugin)
	interaction.ActivateMode(ModeTextSelect)
	assert.Equal(t, ModeTextSelect, interaction.ActiveMode())
}

func TestUI_TogglePanel(t *testing.T) {
	rt := bootRuntime(t)
	ui := mustGet[*UI](t, rt, store.UIPlugin)
	panel := func() store.PanelState { return ui.State().Panel("leftPanel") }

	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "leftPanelMain"})
	assert.Equal(t, store.PanelState{Open: true, VisibleChild: "leftPanelMain"}, panel())

	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "leftPanelMain"})
	assert.False(t, panel().Open, "same child twice closes")

	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "leftPanelMain"})
	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "search"})
	assert.Equal(t, store.PanelState{Open: true, VisibleChild: "search"}, panel(), "different child switches")
	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "leftPanelMain"})
	assert.Equal(t, store.PanelState{Open: true, VisibleChild: "leftPanelMain"}, panel())

	closed := false
	ui.TogglePanel(PanelToggle{ID: "leftPanel", VisibleChild: "search", Open: &closed})
	assert.Equal(t, store.PanelState{Open: false, VisibleChild: "search"}, panel())
}

func TestUI_CommandMenu(t *testing.T) {
	rt := bootRuntime(t)
	ui := mustGet[*UI](t, rt, store.UIPlugin)
	menu := func() store.CommandMenuState { return ui.State().CommandMenu("commandMenu") }

	ui.ToggleCommandMenu("commandMenu", "zoom", "zoomButton", "bottom")
	assert.Equal(t, store.CommandMenuState{Open: true, ActiveCommand: "zoom", TriggerElement: "zoomButton", Position: "bottom"}, menu())

	ui.ToggleCommandMenu("commandMenu", "changeZoomLevel", "zoomButton", "bottom")
	assert.Equal(t, "changeZoomLevel", menu().ActiveCommand)

	ui.ToggleCommandMenu("commandMenu", "changeZoomLevel", "zoomButton", "bottom")
	assert.Equal(t, store.CommandMenuState{}, menu())

	ui.ToggleCommandMenu("commandMenu", "zoom", "zoomButton", "")
	ui.CloseCommandMenu("commandMenu")
	ui.CloseCommandMenu("commandMenu")
	assert.Equal(t, store.CommandMenuState{}, menu())
}

func TestUI_CustomAndRenderers(t *testing.T) {
	rt := bootRuntime(t)
	ui := mustGet[*UI](t, rt, store.UIPlugin)

	before := rt.Store().Snapshot()
	ui.SetCustom("leftPanelMain", "visibleChild", "outline")
	v, ok := ui.State().CustomValue("leftPanelMain", "visibleChild")
	require.True(t, ok)
	assert.Equal(t, "outline", v)

	old, _ := store.Slice[store.UIState](before, store.UIPlugin)
	_, ok = old.CustomValue("leftPanelMain", "visibleChild")
	assert.False(t, ok, "earlier snapshots are not mutated")

	ui.RegisterComponentRenderer("thumbnails", nil)
	_, ok = rt.Renderers().Lookup("thumbnails")
	assert.True(t, ok)
}

func TestFuture_DeferredScheduler(t *testing.T) {
	var queue []func()
	post := func(fn func()) { queue = append(queue, fn) }

	f, resolve, reject := NewFuture[int](post)
	var got []int
	f.Wait(func(v int) { got = append(got, v) }, nil)
	assert.False(t, f.Done())

	resolve(7)
	reject(errors.New("late"))
	assert.True(t, f.Done())
	assert.Empty(t, got, "continuations run on the scheduler")

	f.Wait(func(v int) { got = append(got, v*2) }, nil)
	for _, fn := range queue {
		fn()
	}
	assert.Equal(t, []int{7, 14}, got)
}

func TestFuture_Reject(t *testing.T) {
	f, _, reject := NewFuture[string](nil)
	var gotErr error
	f.Wait(func(string) { t.Error("Expected no result") }, func(err error) { gotErr = err })
	reject(errors.ErrNotReady)
	assert.ErrorIs(t, gotErr, errors.ErrNotReady)
}
