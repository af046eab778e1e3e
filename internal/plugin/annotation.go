package plugin

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/Iron-Ham/pdfcontainer/internal/engine"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// DefaultToolColor is the color of a tool variant with no configured defaults.
const DefaultToolColor = "#ffcd45"

// Annotation is the annotation capability.
type Annotation struct {
	rt *Runtime
}

func (a *Annotation) init(doc *engine.Document) {
	pages := make(map[int][]store.Annotation)
	for _, in := range doc.Annotations {
		subtype := store.AnnotationSubtype(in.Subtype)
		if subtype != store.SubtypeHighlight && subtype != store.SubtypeUnderline {
			continue
		}
		pages[in.Page] = append(pages[in.Page], store.Annotation{
			ID:        uuid.NewString(),
			PageIndex: in.Page,
			Subtype:   subtype,
			Color:     hexColor(in.Color),
			Opacity:   1,
			Contents:  in.Contents,
			Imported:  true,
		})
	}
	update(a.rt, store.AnnotationPlugin, func(store.AnnotationState) store.AnnotationState {
		return store.AnnotationState{
			Pages: pages,
			ToolDefaults: map[string]store.ToolDefaults{
				store.VariantKey(store.SubtypeHighlight, ""): {Color: DefaultToolColor, Opacity: 1},
				store.VariantKey(store.SubtypeUnderline, ""): {Color: "#e44234", Opacity: 1},
			},
		}
	})
}

// SetActiveVariant arms a tool variant; "" disarms every tool.
func (a *Annotation) SetActiveVariant(key string) {
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.ActiveVariant = key
		return prev
	})
}

// ActiveVariant returns the armed tool variant.
func (a *Annotation) ActiveVariant() string {
	return a.State().ActiveVariant
}

// GetToolDefaults returns the style defaults for a tool variant.
func (a *Annotation) GetToolDefaults(key string) store.ToolDefaults {
	if d, ok := a.State().ToolDefaults[key]; ok {
		return d
	}
	return store.ToolDefaults{Color: DefaultToolColor, Opacity: 1}
}

// SetToolDefaults replaces the style defaults of a tool variant.
func (a *Annotation) SetToolDefaults(key string, d store.ToolDefaults) {
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.ToolDefaults = maps.Clone(prev.ToolDefaults)
		if prev.ToolDefaults == nil {
			prev.ToolDefaults = make(map[string]store.ToolDefaults)
		}
		prev.ToolDefaults[key] = d
		return prev
	})
}

// CreateAnnotation adds ann to its page and records it in history. An empty
// ID is filled in. The stored annotation is returned.
func (a *Annotation) CreateAnnotation(ann store.Annotation) store.Annotation {
	if ann.ID == "" {
		ann.ID = uuid.NewString()
	}
	a.insert(ann)
	if history, ok := Get[*History](a.rt, store.HistoryPlugin); ok {
		history.Push(Entry{
			Label: "create " + string(ann.Subtype),
			Undo:  func() { a.remove(ann.PageIndex, ann.ID) },
			Redo:  func() { a.insert(ann) },
		})
	}
	return ann
}

// DeleteAnnotation removes an annotation and records it in history.
func (a *Annotation) DeleteAnnotation(pageIndex int, id string) {
	ann, ok := a.find(pageIndex, id)
	if !ok {
		return
	}
	a.remove(pageIndex, id)
	if history, ok := Get[*History](a.rt, store.HistoryPlugin); ok {
		history.Push(Entry{
			Label: "delete " + string(ann.Subtype),
			Undo:  func() { a.insert(ann) },
			Redo:  func() { a.remove(pageIndex, id) },
		})
	}
}

// SelectAnnotation marks an annotation as selected.
func (a *Annotation) SelectAnnotation(pageIndex int, id string) {
	if _, ok := a.find(pageIndex, id); !ok {
		return
	}
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.Selected = &store.AnnotationRef{PageIndex: pageIndex, ID: id}
		return prev
	})
}

// DeselectAnnotation clears the selection.
func (a *Annotation) DeselectAnnotation() {
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.Selected = nil
		return prev
	})
}

// Selected returns the selected annotation.
func (a *Annotation) Selected() (store.Annotation, bool) {
	ref := a.State().Selected
	if ref == nil {
		return store.Annotation{}, false
	}
	return a.find(ref.PageIndex, ref.ID)
}

// State returns the annotation slice.
func (a *Annotation) State() store.AnnotationState {
	return slice[store.AnnotationState](a.rt, store.AnnotationPlugin)
}

func (a *Annotation) find(pageIndex int, id string) (store.Annotation, bool) {
	for _, ann := range a.State().Pages[pageIndex] {
		if ann.ID == id {
			return ann, true
		}
	}
	return store.Annotation{}, false
}

func (a *Annotation) insert(ann store.Annotation) {
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.Pages = maps.Clone(prev.Pages)
		if prev.Pages == nil {
			prev.Pages = make(map[int][]store.Annotation)
		}
		page := slices.Clone(prev.Pages[ann.PageIndex])
		prev.Pages[ann.PageIndex] = append(page, ann)
		return prev
	})
}

func (a *Annotation) remove(pageIndex int, id string) {
	update(a.rt, store.AnnotationPlugin, func(prev store.AnnotationState) store.AnnotationState {
		prev.Pages = maps.Clone(prev.Pages)
		prev.Pages[pageIndex] = slices.DeleteFunc(slices.Clone(prev.Pages[pageIndex]), func(x store.Annotation) bool {
			return x.ID == id
		})
		if prev.Selected != nil && prev.Selected.PageIndex == pageIndex && prev.Selected.ID == id {
			prev.Selected = nil
		}
		return prev
	})
}

// hexColor converts an RGB color in the 0..1 range to #rrggbb.
func hexColor(rgb []float64) string {
	if len(rgb) != 3 {
		return DefaultToolColor
	}
	var c [3]int
	for i, v := range rgb {
		c[i] = int(min(max(v, 0), 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
