package plugin

import "github.com/Iron-Ham/pdfcontainer/internal/store"

// Interaction modes.
const (
	ModePointer     = "pointerMode"
	ModeTextSelect  = "textSelect"
	ModeMarqueeZoom = "marqueeZoom"
)

// Interaction is the interaction-manager capability.
type Interaction struct {
	rt *Runtime
}

// ActivateMode switches the active interaction mode.
func (i *Interaction) ActivateMode(mode string) {
	update(i.rt, store.InteractionPlugin, func(store.InteractionState) store.InteractionState {
		return store.InteractionState{Mode: mode}
	})
}

// ActiveMode returns the current interaction mode.
func (i *Interaction) ActiveMode() string {
	return slice[store.InteractionState](i.rt, store.InteractionPlugin).Mode
}
