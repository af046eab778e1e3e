package plugin

import (
	"slices"
	"strconv"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Zoom modes.
const (
	ZoomModeFitPage  = "fit-page"
	ZoomModeFitWidth = "fit-width"
)

// Zoom is the zoom capability.
type Zoom struct {
	rt     *Runtime
	levels []float64
}

func (z *Zoom) init(def string) {
	switch def {
	case ZoomModeFitPage, ZoomModeFitWidth:
		z.RequestMode(def)
	default:
		level, err := strconv.ParseFloat(def, 64)
		if err != nil || level <= 0 {
			z.RequestMode(ZoomModeFitPage)
			return
		}
		z.RequestZoom(level)
	}
}

// RequestZoom sets an explicit zoom level.
func (z *Zoom) RequestZoom(level float64) {
	if level <= 0 {
		return
	}
	update(z.rt, store.ZoomPlugin, func(store.ZoomState) store.ZoomState {
		return store.ZoomState{CurrentZoomLevel: level}
	})
	z.rt.store.UpdateCore(func(prev store.CoreState) store.CoreState {
		prev.Scale = level
		return prev
	})
}

// RequestMode switches to a fit mode. Fit modes render at level 1 in a
// character grid, so only the mode marker differs.
func (z *Zoom) RequestMode(mode string) {
	update(z.rt, store.ZoomPlugin, func(store.ZoomState) store.ZoomState {
		return store.ZoomState{CurrentZoomLevel: 1, Mode: mode}
	})
}

// ZoomIn moves to the next configured level above the current one.
func (z *Zoom) ZoomIn() {
	cur := z.State().CurrentZoomLevel
	for _, l := range z.levels {
		if l > cur {
			z.RequestZoom(l)
			return
		}
	}
}

// ZoomOut moves to the next configured level below the current one.
func (z *Zoom) ZoomOut() {
	cur := z.State().CurrentZoomLevel
	for _, l := range slices.Backward(z.levels) {
		if l < cur {
			z.RequestZoom(l)
			return
		}
	}
}

// State returns the zoom slice.
func (z *Zoom) State() store.ZoomState {
	return slice[store.ZoomState](z.rt, store.ZoomPlugin)
}
