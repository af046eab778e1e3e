package store

// PluginID identifies a plugin's slice of the shared state tree.
type PluginID string

// Plugin identifiers known to the container.
const (
	ZoomPlugin        PluginID = "zoom"
	ScrollPlugin      PluginID = "scroll"
	SearchPlugin      PluginID = "search"
	SelectionPlugin   PluginID = "selection"
	AnnotationPlugin  PluginID = "annotation"
	HistoryPlugin     PluginID = "history"
	ViewportPlugin    PluginID = "viewport"
	InteractionPlugin PluginID = "interaction-manager"
	ExportPlugin      PluginID = "export"
	UIPlugin          PluginID = "ui"
)

// State is one immutable snapshot of the shared state tree.
// Slices must be treated as read-only by every reader.
type State struct {
	Version uint64
	Core    CoreState
	Plugins map[PluginID]any
}

// Slice returns the typed state slice for id. ok is false when the plugin
// has not booted yet or the slice has a different type.
func Slice[T any](s State, id PluginID) (T, bool) {
	v, ok := s.Plugins[id]
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// CoreState describes the loaded document.
type CoreState struct {
	Document *DocumentInfo
	Scale    float64
	Loaded   bool
}

// DocumentInfo is the document summary published by the engine.
type DocumentInfo struct {
	ID        string
	Name      string
	Source    string
	PageCount int
	Title     string
	Author    string
}

// ZoomState is the zoom plugin slice.
type ZoomState struct {
	CurrentZoomLevel float64
	// Mode is "fit-page", "fit-width" or "" for an explicit level.
	Mode string
}

// ScrollState is the scroll plugin slice. Pages are 1-based.
type ScrollState struct {
	CurrentPage int
	TotalPages  int
	Strategy    string
}

// SearchFlag modifies how a query is matched.
type SearchFlag string

const (
	SearchMatchCase SearchFlag = "match-case"
	SearchWholeWord SearchFlag = "whole-word"
	SearchWildcard  SearchFlag = "wildcard"
)

// SearchResult is one hit in the document text.
type SearchResult struct {
	PageIndex int
	Offset    int
	Length    int
	Excerpt   string
}

// SearchState is the search plugin slice.
type SearchState struct {
	Query             string
	Flags             []SearchFlag
	Results           []SearchResult
	Total             int
	ActiveResultIndex int
	Active            bool
	Loading           bool
}

// Rect is a page-space rectangle in character cells.
type Rect struct {
	X, Y, Width, Height int
}

// TextRange is a selection on a single page, as rune offsets into the page text.
type TextRange struct {
	PageIndex int
	Start     int
	End       int
}

// SelectionState is the selection plugin slice.
type SelectionState struct {
	Active    bool
	Selecting bool
	Ranges    []TextRange
	// CopyError is the message of the last failed clipboard copy.
	CopyError string
}

// AnnotationSubtype mirrors the PDF annotation subtypes the viewer creates.
type AnnotationSubtype string

const (
	SubtypeHighlight AnnotationSubtype = "Highlight"
	SubtypeUnderline AnnotationSubtype = "Underline"
)

// ToolDefaults are the style defaults for an annotation tool variant.
type ToolDefaults struct {
	Color   string
	Opacity float64
}

// Annotation is one annotation on a page.
type Annotation struct {
	ID        string
	PageIndex int
	Subtype   AnnotationSubtype
	Color     string
	Opacity   float64
	BlendMode string
	Range     TextRange
	Text      string
	Contents  string
	// Imported is true for annotations read from the document itself.
	Imported bool
}

// AnnotationRef addresses an annotation.
type AnnotationRef struct {
	PageIndex int
	ID        string
}

// AnnotationState is the annotation plugin slice.
type AnnotationState struct {
	// ActiveVariant is the armed tool variant key, "" when none is active.
	ActiveVariant string
	Pages         map[int][]Annotation
	Selected      *AnnotationRef
	ToolDefaults  map[string]ToolDefaults
}

// VariantKey builds the tool variant key for a subtype, optionally refined by an intent.
func VariantKey(subtype AnnotationSubtype, intent string) string {
	if intent == "" {
		return string(subtype)
	}
	return string(subtype) + "#" + intent
}

// HistoryState is the history plugin slice.
type HistoryState struct {
	CanUndo bool
	CanRedo bool
}

// ExportState is the export plugin slice.
type ExportState struct {
	// LastPath is where the last download was written.
	LastPath string
	// LastError is the message of the last failed download.
	LastError string
}

// ViewportState is the viewport plugin slice.
type ViewportState struct {
	Width       int
	Height      int
	IsScrolling bool
}

// InteractionState is the interaction-manager plugin slice.
type InteractionState struct {
	// Mode is "pointerMode", "textSelect" or "marqueeZoom".
	Mode string
}

// PanelState is the open/visible-child pair for one panel.
type PanelState struct {
	Open         bool
	VisibleChild string
}

// CommandMenuState is the transient state of a command-menu node.
type CommandMenuState struct {
	Open          bool
	ActiveCommand string
	// TriggerElement is the id of the node that opened the menu.
	TriggerElement string
	// Position is "top", "bottom", "left", "right" or "".
	Position string
	Flatten  bool
}

// UIState is the ui plugin slice: panel, command menu and custom node state.
type UIState struct {
	Panels       map[string]PanelState
	CommandMenus map[string]CommandMenuState
	Custom       map[string]map[string]any
}

// Panel returns the state of a panel, closed when unknown.
func (u UIState) Panel(id string) PanelState {
	return u.Panels[id]
}

// CommandMenu returns the state of a command menu, closed when unknown.
func (u UIState) CommandMenu(id string) CommandMenuState {
	return u.CommandMenus[id]
}

// CustomValue returns a custom state field of a node.
func (u UIState) CustomValue(nodeID, key string) (any, bool) {
	fields, ok := u.Custom[nodeID]
	if !ok {
		return nil, false
	}
	v, ok := fields[key]
	return v, ok
}
