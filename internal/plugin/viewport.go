package plugin

import "github.com/Iron-Ham/pdfcontainer/internal/store"

// Viewport tracks the document area size and scroll activity.
type Viewport struct {
	rt *Runtime
}

// SetSize records the document area dimensions.
func (v *Viewport) SetSize(width, height int) {
	update(v.rt, store.ViewportPlugin, func(prev store.ViewportState) store.ViewportState {
		if prev.Width == width && prev.Height == height {
			return prev
		}
		prev.Width, prev.Height = width, height
		return prev
	})
}

// SetScrolling marks whether the user is actively scrolling.
func (v *Viewport) SetScrolling(scrolling bool) {
	update(v.rt, store.ViewportPlugin, func(prev store.ViewportState) store.ViewportState {
		prev.IsScrolling = scrolling
		return prev
	})
}
