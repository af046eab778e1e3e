package viewer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Iron-Ham/pdfcontainer/internal/plugin"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
)

// Capability views the commands act through. The plugin runtime's providers
// satisfy them.
type (
	exporter interface {
		Download() (string, error)
	}
	zoomer interface {
		RequestZoom(level float64)
		ZoomIn()
		ZoomOut()
	}
	scroller interface {
		ScrollToNextPage()
		ScrollToPreviousPage()
	}
	panels interface {
		TogglePanel(t plugin.PanelToggle)
		SetCustom(nodeID, key string, value any)
	}
	selector interface {
		GetFormattedSelection() []store.TextRange
		GetSelectedText() *plugin.Future[[]string]
		CopyToClipboard() error
	}
	annotator interface {
		SetActiveVariant(key string)
		GetToolDefaults(key string) store.ToolDefaults
		CreateAnnotation(ann store.Annotation) store.Annotation
		SelectAnnotation(pageIndex int, id string)
		DeleteAnnotation(pageIndex int, id string)
		Selected() (store.Annotation, bool)
	}
	historian interface {
		Undo()
		Redo()
	}
)

// provider returns the capability for id as T; ok is false while the plugin
// has not booted.
func provider[T any](caps command.Capabilities, id store.PluginID) (T, bool) {
	var zero T
	p, ok := caps.Capability(id)
	if !ok {
		return zero, false
	}
	typed, ok := p.(T)
	return typed, ok
}

var highlightVariant = store.VariantKey(store.SubtypeHighlight, "")

func uiState(s store.State) store.UIState {
	ui, _ := store.Slice[store.UIState](s, store.UIPlugin)
	return ui
}

func zoomLevel(s store.State) float64 {
	z, _ := store.Slice[store.ZoomState](s, store.ZoomPlugin)
	return z.CurrentZoomLevel
}

func panelShows(s store.State, panel, child string) bool {
	p := uiState(s).Panel(panel)
	return p.Open && p.VisibleChild == child
}

func highlightIconProps(s store.State) map[string]any {
	ann, _ := store.Slice[store.AnnotationState](s, store.AnnotationPlugin)
	color := plugin.DefaultToolColor
	if d, ok := ann.ToolDefaults[highlightVariant]; ok && d.Color != "" {
		color = d.Color
	}
	return map[string]any{"primaryColor": color}
}

func zoomTo(level float64) func(command.Capabilities, store.State) {
	return func(caps command.Capabilities, _ store.State) {
		if z, ok := provider[zoomer](caps, store.ZoomPlugin); ok {
			z.RequestZoom(level)
		}
	}
}

func zoomActive(level float64) func(store.State) bool {
	return func(s store.State) bool { return zoomLevel(s) == level }
}

func leftPanelTab(child string) func(command.Capabilities, store.State) {
	return func(caps command.Capabilities, _ store.State) {
		if ui, ok := provider[panels](caps, store.UIPlugin); ok {
			ui.SetCustom(LeftPanelMainID, "visibleChild", child)
		}
	}
}

// Commands returns the viewer's command set.
func Commands() []command.Command {
	return []command.Command{
		{
			ID:    "download",
			Icon:  "download",
			Label: "Download",
			Action: func(caps command.Capabilities, _ store.State) {
				if e, ok := provider[exporter](caps, store.ExportPlugin); ok {
					_, _ = e.Download()
				}
			},
		},
		{
			ID:       "zoom",
			Icon:     "zoomIn",
			Label:    "Zoom Controls",
			Type:     command.Menu,
			Children: []string{"changeZoomLevel"},
			Active: func(s store.State) bool {
				return command.MenuActive(s, command.DefaultMenuID, "zoom")
			},
		},
		{
			ID: "changeZoomLevel",
			LabelFunc: func(s store.State) string {
				return fmt.Sprintf("Zoom level (%.0f%%)", zoomLevel(s)*100)
			},
			Type:     command.Menu,
			Children: []string{"zoom50", "zoom100", "zoom150", "zoom200"},
			Active: func(s store.State) bool {
				return command.MenuActive(s, command.DefaultMenuID, "changeZoomLevel")
			},
		},
		{ID: "zoom50", Label: "50%", Active: zoomActive(0.5), Action: zoomTo(0.5)},
		{ID: "zoom100", Label: "100%", Active: zoomActive(1), Action: zoomTo(1)},
		{ID: "zoom150", Label: "150%", Active: zoomActive(1.5), Action: zoomTo(1.5)},
		{ID: "zoom200", Label: "200%", Active: zoomActive(2), Action: zoomTo(2)},
		{
			ID:    "zoomIn",
			Label: "Zoom in",
			Icon:  "zoomIn",
			Action: func(caps command.Capabilities, _ store.State) {
				if z, ok := provider[zoomer](caps, store.ZoomPlugin); ok {
					z.ZoomIn()
				}
			},
		},
		{
			ID:    "zoomOut",
			Label: "Zoom out",
			Icon:  "zoomOut",
			Action: func(caps command.Capabilities, _ store.State) {
				if z, ok := provider[zoomer](caps, store.ZoomPlugin); ok {
					z.ZoomOut()
				}
			},
		},
		{
			ID:    "search",
			Label: "Search",
			Icon:  "search",
			Action: func(caps command.Capabilities, _ store.State) {
				if ui, ok := provider[panels](caps, store.UIPlugin); ok {
					ui.TogglePanel(plugin.PanelToggle{ID: RightPanelID, VisibleChild: SearchID})
				}
			},
			Active: func(s store.State) bool { return panelShows(s, RightPanelID, SearchID) },
		},
		{
			ID:    "sidebar",
			Label: "Sidebar",
			Icon:  "sidebar",
			Action: func(caps command.Capabilities, s store.State) {
				if ui, ok := provider[panels](caps, store.UIPlugin); ok {
					open := !panelShows(s, LeftPanelID, LeftPanelMainID)
					ui.TogglePanel(plugin.PanelToggle{ID: LeftPanelID, VisibleChild: LeftPanelMainID, Open: &open})
				}
			},
			Active: func(s store.State) bool { return panelShows(s, LeftPanelID, LeftPanelMainID) },
		},
		{
			ID:     "thumbnailsTab",
			Label:  "Thumbnails",
			Icon:   "photo",
			Action: leftPanelTab(ThumbnailsID),
			Active: func(s store.State) bool { return leftPanelChild(s, ThumbnailsID) == ThumbnailsID },
		},
		{
			ID:     "outlineTab",
			Label:  "Outline",
			Icon:   "listTree",
			Action: leftPanelTab(OutlineID),
			Active: func(s store.State) bool { return leftPanelChild(s, ThumbnailsID) == OutlineID },
		},
		{
			ID:    "nextPage",
			Label: "Next page",
			Icon:  "chevronRight",
			Action: func(caps command.Capabilities, _ store.State) {
				if sc, ok := provider[scroller](caps, store.ScrollPlugin); ok {
					sc.ScrollToNextPage()
				}
			},
		},
		{
			ID:    "previousPage",
			Label: "Previous page",
			Icon:  "chevronLeft",
			Action: func(caps command.Capabilities, _ store.State) {
				if sc, ok := provider[scroller](caps, store.ScrollPlugin); ok {
					sc.ScrollToPreviousPage()
				}
			},
		},
		{
			ID:    "copy",
			Label: "Copy",
			Icon:  "copy",
			Action: func(caps command.Capabilities, _ store.State) {
				if sel, ok := provider[selector](caps, store.SelectionPlugin); ok {
					// Failures are logged and kept on the selection slice.
					_ = sel.CopyToClipboard()
				}
			},
		},
		{
			ID:        "highlight",
			Label:     "Highlight",
			Icon:      "highlight",
			IconProps: highlightIconProps,
			Action: func(caps command.Capabilities, s store.State) {
				ann, ok := provider[annotator](caps, store.AnnotationPlugin)
				if !ok {
					return
				}
				a, _ := store.Slice[store.AnnotationState](s, store.AnnotationPlugin)
				if a.ActiveVariant == highlightVariant {
					ann.SetActiveVariant("")
					return
				}
				ann.SetActiveVariant(highlightVariant)
			},
			Active: func(s store.State) bool {
				a, _ := store.Slice[store.AnnotationState](s, store.AnnotationPlugin)
				return a.ActiveVariant == highlightVariant
			},
		},
		{
			ID:        "highlightSelection",
			Label:     "Highlight Selection",
			Icon:      "highlight",
			IconProps: highlightIconProps,
			Action:    highlightSelection,
		},
		{
			ID:    "deleteAnnotation",
			Label: "Delete",
			Icon:  "trash",
			Action: func(caps command.Capabilities, _ store.State) {
				ann, ok := provider[annotator](caps, store.AnnotationPlugin)
				if !ok {
					return
				}
				if sel, ok := ann.Selected(); ok {
					ann.DeleteAnnotation(sel.PageIndex, sel.ID)
				}
			},
			Disabled: func(s store.State) bool {
				a, _ := store.Slice[store.AnnotationState](s, store.AnnotationPlugin)
				return a.Selected == nil
			},
		},
		{
			ID:    "undo",
			Label: "Undo",
			Icon:  "arrowBackUp",
			Action: func(caps command.Capabilities, _ store.State) {
				if h, ok := provider[historian](caps, store.HistoryPlugin); ok {
					h.Undo()
				}
			},
			Disabled: func(s store.State) bool {
				h, _ := store.Slice[store.HistoryState](s, store.HistoryPlugin)
				return !h.CanUndo
			},
		},
		{
			ID:    "redo",
			Label: "Redo",
			Icon:  "arrowForwardUp",
			Action: func(caps command.Capabilities, _ store.State) {
				if h, ok := provider[historian](caps, store.HistoryPlugin); ok {
					h.Redo()
				}
			},
			Disabled: func(s store.State) bool {
				h, _ := store.Slice[store.HistoryState](s, store.HistoryPlugin)
				return !h.CanRedo
			},
		},
	}
}

// highlightSelection creates one highlight per selected page range once the
// selected text is available, and selects it.
func highlightSelection(caps command.Capabilities, _ store.State) {
	ann, ok := provider[annotator](caps, store.AnnotationPlugin)
	if !ok {
		return
	}
	sel, ok := provider[selector](caps, store.SelectionPlugin)
	if !ok {
		return
	}

	defaults := ann.GetToolDefaults(highlightVariant)
	ranges := sel.GetFormattedSelection()
	text := sel.GetSelectedText()

	for _, r := range ranges {
		text.Wait(func(texts []string) {
			id := uuid.NewString()
			ann.CreateAnnotation(store.Annotation{
				ID:        id,
				PageIndex: r.PageIndex,
				Subtype:   store.SubtypeHighlight,
				Color:     defaults.Color,
				Opacity:   defaults.Opacity,
				BlendMode: "Multiply",
				Range:     r,
				Text:      strings.Join(texts, "\n"),
			})
			ann.SelectAnnotation(r.PageIndex, id)
		}, nil)
	}
}

func leftPanelChild(s store.State, fallback string) string {
	v, ok := uiState(s).CustomValue(LeftPanelMainID, "visibleChild")
	if child, isString := v.(string); ok && isString && child != "" {
		return child
	}
	return fallback
}
