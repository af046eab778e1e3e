package viewer

import (
	"github.com/Iron-Ham/pdfcontainer/internal/store"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/command"
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// Node ids the commands and the host refer to.
const (
	TopHeaderID          = "topHeader"
	LeftPanelID          = "leftPanel"
	LeftPanelMainID      = "leftPanelMain"
	RightPanelID         = "rightPanel"
	ThumbnailsID         = "thumbnails"
	OutlineID            = "outline"
	SearchID             = "search"
	CommandMenuID        = command.DefaultMenuID
	TextSelectionMenuID  = "textSelectionMenu"
	AnnotationMenuID     = "annotationMenu"
	PageControlsID       = "pageControls"
	PageControlsFloating = "pageControlsContainer"
)

// Breakpoints are in terminal columns.
const (
	zoomButtonVisibility = "hidden @min-80:block @min-120:hidden"
	zoomWidgetVisibility = "hidden @min-120:block"
)

// iconButton declares a button bound to a command. active and disabled are
// projected from the command's derivations when the flags are set.
func iconButton(cmds *command.Registry, id, commandID, label string, active, disabled bool, extra component.Props) component.Node {
	props := component.Props{"commandId": commandID, "label": label}
	if active {
		props["active"] = false
	}
	if disabled {
		props["disabled"] = false
	}
	for k, v := range extra {
		props[k] = v
	}
	return component.Node{
		ID:    id,
		Type:  component.TypeIconButton,
		Props: props,
		MapStateToProps: func(s store.State, own component.Props) component.Props {
			out := own.With()
			if active {
				out["active"] = cmds.IsActive(commandID, s)
			}
			if disabled {
				out["disabled"] = cmds.IsDisabled(commandID, s)
			}
			if icon, iconProps := cmds.ResolveIcon(commandID, s); iconProps != nil {
				out["icon"] = icon
				out["iconProps"] = iconProps
			}
			return out
		},
	}
}

func groupedItems(id string, slots ...component.Slot) component.Node {
	return component.Node{
		ID:    id,
		Type:  component.TypeGroupedItems,
		Slots: slots,
		Props: component.Props{"gap": 1},
	}
}

func panelNode(id, location, visibleChild string, slots ...component.Slot) component.Node {
	return component.Node{
		ID:           id,
		Type:         component.TypePanel,
		InitialState: map[string]any{"open": false, "visibleChild": visibleChild},
		PropsFunc: func(initial map[string]any) component.Props {
			return component.Props{
				"open":         initial["open"],
				"visibleChild": initial["visibleChild"],
				"location":     location,
			}
		},
		MapStateToProps: func(s store.State, own component.Props) component.Props {
			p := uiState(s).Panel(id)
			return own.With("open", p.Open, "visibleChild", p.VisibleChild)
		},
		Slots: slots,
	}
}

// Components returns the viewer's node set. Button projections read command
// derivations from cmds.
func Components(cmds *command.Registry) []component.Node {
	return []component.Node{
		iconButton(cmds, "downloadButton", "download", "Download", true, false, nil),
		iconButton(cmds, "undoButton", "undo", "Undo", false, true, nil),
		iconButton(cmds, "redoButton", "redo", "Redo", false, true, nil),
		iconButton(cmds, "copyButton", "copy", "Copy", true, false, nil),
		iconButton(cmds, "highlightButton", "highlight", "Highlight", true, false, component.Props{"color": "#ffcd45"}),
		iconButton(cmds, "highlightSelectionButton", "highlightSelection", "Highlight Selection", false, false, component.Props{"color": "#ffcd45"}),
		iconButton(cmds, "deleteAnnotationButton", "deleteAnnotation", "Delete", false, true, nil),
		iconButton(cmds, "searchButton", "search", "Search", true, false, nil),
		iconButton(cmds, "sidebarButton", "sidebar", "Sidebar", true, false, nil),
		iconButton(cmds, "thumbnailsTabButton", "thumbnailsTab", "Thumbnails", true, false, nil),
		iconButton(cmds, "outlineTabButton", "outlineTab", "Outline", true, false, nil),
		{
			ID:   "zoomButton",
			Type: component.TypeIconButton,
			Props: component.Props{
				"commandId": "zoom",
				"label":     "Zoom",
				"active":    false,
			},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				return own.With("active", cmds.IsActive("zoom", s) || cmds.IsActive("changeZoomLevel", s))
			},
		},
		groupedItems("headerStart",
			component.Slot{ComponentID: "downloadButton", Priority: 1},
			component.Slot{ComponentID: "sidebarButton", Priority: 2},
			component.Slot{ComponentID: "zoomButton", Priority: 7, Visibility: zoomButtonVisibility},
			component.Slot{ComponentID: "zoom", Priority: 8, Visibility: zoomWidgetVisibility},
		),
		groupedItems("headerCenter",
			component.Slot{ComponentID: "highlightButton", Priority: 0},
			component.Slot{ComponentID: "undoButton", Priority: 3},
			component.Slot{ComponentID: "redoButton", Priority: 4},
		),
		groupedItems("headerEnd",
			component.Slot{ComponentID: "searchButton", Priority: 1},
		),
		{
			ID:     PageControlsID,
			Type:   component.TypeCustom,
			Render: "pageControls",
			InitialState: map[string]any{
				"currentPage": 1,
				"pageCount":   1,
			},
			PropsFunc: func(initial map[string]any) component.Props {
				return component.Props{
					"currentPage":           initial["currentPage"],
					"pageCount":             initial["pageCount"],
					"nextPageCommandId":     "nextPage",
					"previousPageCommandId": "previousPage",
				}
			},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				out := own.With("pageCount", 1)
				if sc, ok := store.Slice[store.ScrollState](s, store.ScrollPlugin); ok {
					out["currentPage"] = sc.CurrentPage
				}
				if s.Core.Document != nil {
					out["pageCount"] = s.Core.Document.PageCount
				}
				return out
			},
		},
		{
			ID:     PageControlsFloating,
			Type:   component.TypeFloating,
			Render: "pageControlsContainer",
			Props:  component.Props{"scrollerPosition": "outside"},
			Slots:  []component.Slot{{ComponentID: PageControlsID, Priority: 0}},
		},
		groupedItems("textSelectionMenuButtons",
			component.Slot{ComponentID: "copyButton", Priority: 0},
			component.Slot{ComponentID: "highlightSelectionButton", Priority: 1},
		),
		{
			ID:     TextSelectionMenuID,
			Type:   component.TypeFloating,
			Render: "textSelectionMenu",
			Props:  component.Props{"open": false, "scrollerPosition": "inside"},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				sel, _ := store.Slice[store.SelectionState](s, store.SelectionPlugin)
				vp, _ := store.Slice[store.ViewportState](s, store.ViewportPlugin)
				return own.With(
					"isScrolling", vp.IsScrolling,
					"scale", s.Core.Scale,
					"open", sel.Active && !sel.Selecting,
				)
			},
			Slots:        []component.Slot{{ComponentID: "textSelectionMenuButtons", Priority: 0}},
			ChildContext: component.Context{"direction": "horizontal"},
		},
		{
			ID:     AnnotationMenuID,
			Type:   component.TypeFloating,
			Render: "annotationMenu",
			Props:  component.Props{"open": false, "scrollerPosition": "inside"},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				ann, _ := store.Slice[store.AnnotationState](s, store.AnnotationPlugin)
				out := own.With("open", ann.Selected != nil)
				if ann.Selected != nil {
					out["pageIndex"] = ann.Selected.PageIndex
					out["annotationId"] = ann.Selected.ID
				}
				return out
			},
			Slots:        []component.Slot{{ComponentID: "deleteAnnotationButton", Priority: 0}},
			ChildContext: component.Context{"direction": "horizontal"},
		},
		{
			ID:   TopHeaderID,
			Type: component.TypeHeader,
			Slots: []component.Slot{
				{ComponentID: "headerStart", Priority: 0},
				{ComponentID: "headerCenter", Priority: 1},
				{ComponentID: "headerEnd", Priority: 2},
			},
			ChildContextFunc: func(props component.Props) component.Context {
				direction := "vertical"
				if p := props.String("placement"); p == "top" || p == "bottom" {
					direction = "horizontal"
				}
				return component.Context{"direction": direction}
			},
			Props: component.Props{"placement": "top", "gap": 1},
		},
		{
			ID:           LeftPanelMainID,
			Type:         component.TypeCustom,
			Render:       "leftPanelMain",
			InitialState: map[string]any{"visibleChild": ThumbnailsID},
			PropsFunc: func(initial map[string]any) component.Props {
				return component.Props{
					"visibleChild":  initial["visibleChild"],
					"tabsCommandId": "",
				}
			},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				return own.With("visibleChild", leftPanelChild(s, own.String("visibleChild")))
			},
			Slots: []component.Slot{
				{ComponentID: ThumbnailsID, Priority: 0},
				{ComponentID: OutlineID, Priority: 1},
				{ComponentID: "leftPanelTabs", Priority: 2},
			},
		},
		groupedItems("leftPanelTabs",
			component.Slot{ComponentID: "thumbnailsTabButton", Priority: 0},
			component.Slot{ComponentID: "outlineTabButton", Priority: 1},
		),
		panelNode(LeftPanelID, "left", LeftPanelMainID,
			component.Slot{ComponentID: LeftPanelMainID, Priority: 0},
		),
		{
			ID:     ThumbnailsID,
			Type:   component.TypeCustom,
			Render: "thumbnails",
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				sc, _ := store.Slice[store.ScrollState](s, store.ScrollPlugin)
				return own.With("currentPage", sc.CurrentPage)
			},
		},
		{
			ID:     OutlineID,
			Type:   component.TypeCustom,
			Render: "outline",
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				sc, _ := store.Slice[store.ScrollState](s, store.ScrollPlugin)
				return own.With("currentPage", sc.CurrentPage)
			},
		},
		{
			ID:     SearchID,
			Type:   component.TypeCustom,
			Render: "search",
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				st, _ := store.Slice[store.SearchState](s, store.SearchPlugin)
				return own.With(
					"flags", st.Flags,
					"results", st.Results,
					"total", st.Total,
					"activeResultIndex", st.ActiveResultIndex,
					"active", st.Active,
					"query", st.Query,
					"loading", st.Loading,
				)
			},
		},
		{
			ID:   CommandMenuID,
			Type: component.TypeCommandMenu,
			InitialState: map[string]any{
				"open":           false,
				"activeCommand":  "",
				"triggerElement": "",
				"position":       "",
				"flatten":        false,
			},
			PropsFunc: func(initial map[string]any) component.Props {
				return component.Props(initial)
			},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				m := uiState(s).CommandMenu(CommandMenuID)
				return own.With(
					"open", m.Open,
					"activeCommand", m.ActiveCommand,
					"triggerElement", m.TriggerElement,
					"position", m.Position,
					"flatten", m.Flatten,
				)
			},
		},
		{
			ID:           "zoom",
			Type:         component.TypeCustom,
			Render:       "zoom",
			InitialState: map[string]any{"zoomLevel": 1.0},
			PropsFunc: func(initial map[string]any) component.Props {
				return component.Props{
					"zoomLevel":       initial["zoomLevel"],
					"commandZoomIn":   "zoomIn",
					"commandZoomOut":  "zoomOut",
					"commandZoomMenu": "zoom",
					"zoomMenuActive":  false,
				}
			},
			MapStateToProps: func(s store.State, own component.Props) component.Props {
				out := own.With("zoomMenuActive", cmds.IsActive("zoom", s) || cmds.IsActive("changeZoomLevel", s))
				if z, ok := store.Slice[store.ZoomState](s, store.ZoomPlugin); ok {
					out["zoomLevel"] = z.CurrentZoomLevel
				}
				return out
			},
		},
		panelNode(RightPanelID, "right", "",
			component.Slot{ComponentID: SearchID, Priority: 0},
		),
	}
}
