package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "state.changed", "element.mounted")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeStateChanged     = "state.changed"
	TypeEngineReady      = "engine.ready"
	TypeEngineFailed     = "engine.failed"
	TypeElementMounted   = "element.mounted"
	TypeElementUnmounted = "element.unmounted"
	TypeNodeFailed       = "node.failed"
	TypeCommandInvoked   = "command.invoked"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// StateChangedEvent is emitted after an atomic mutation of the shared state tree.
type StateChangedEvent struct {
	baseEvent
	Version uint64 // Monotonic state version after the mutation
	Plugin  string // Plugin slice that changed ("core" for document state)
}

// NewStateChangedEvent creates a StateChangedEvent.
func NewStateChangedEvent(version uint64, plugin string) StateChangedEvent {
	return StateChangedEvent{
		baseEvent: newBaseEvent(TypeStateChanged),
		Version:   version,
		Plugin:    plugin,
	}
}

// EngineReadyEvent is emitted when a document finished loading and the plugin
// runtime booted.
type EngineReadyEvent struct {
	baseEvent
	Source     string
	PageCount  int
	Generation uint64
}

// NewEngineReadyEvent creates an EngineReadyEvent.
func NewEngineReadyEvent(source string, pageCount int, generation uint64) EngineReadyEvent {
	return EngineReadyEvent{
		baseEvent:  newBaseEvent(TypeEngineReady),
		Source:     source,
		PageCount:  pageCount,
		Generation: generation,
	}
}

// EngineFailedEvent is emitted when the engine could not load a document.
type EngineFailedEvent struct {
	baseEvent
	Source     string
	Err        error
	Generation uint64
}

// NewEngineFailedEvent creates an EngineFailedEvent.
func NewEngineFailedEvent(source string, err error, generation uint64) EngineFailedEvent {
	return EngineFailedEvent{
		baseEvent:  newBaseEvent(TypeEngineFailed),
		Source:     source,
		Err:        err,
		Generation: generation,
	}
}

// ElementMountedEvent is emitted when an element starts a new mount cycle.
type ElementMountedEvent struct {
	baseEvent
	Tag        string
	Source     string
	Generation uint64
}

// NewElementMountedEvent creates an ElementMountedEvent.
func NewElementMountedEvent(tag, source string, generation uint64) ElementMountedEvent {
	return ElementMountedEvent{
		baseEvent:  newBaseEvent(TypeElementMounted),
		Tag:        tag,
		Source:     source,
		Generation: generation,
	}
}

// ElementUnmountedEvent is emitted when an element tears a mount cycle down.
type ElementUnmountedEvent struct {
	baseEvent
	Tag        string
	Generation uint64
}

// NewElementUnmountedEvent creates an ElementUnmountedEvent.
func NewElementUnmountedEvent(tag string, generation uint64) ElementUnmountedEvent {
	return ElementUnmountedEvent{
		baseEvent:  newBaseEvent(TypeElementUnmounted),
		Tag:        tag,
		Generation: generation,
	}
}

// NodeFailedEvent is emitted when projecting or rendering a single node failed.
type NodeFailedEvent struct {
	baseEvent
	NodeID string
	Stage  string // "mount", "project" or "render"
	Err    error
}

// NewNodeFailedEvent creates a NodeFailedEvent.
func NewNodeFailedEvent(nodeID, stage string, err error) NodeFailedEvent {
	return NodeFailedEvent{
		baseEvent: newBaseEvent(TypeNodeFailed),
		NodeID:    nodeID,
		Stage:     stage,
		Err:       err,
	}
}

// CommandInvokedEvent is emitted when a command is triggered from the UI.
type CommandInvokedEvent struct {
	baseEvent
	CommandID string
}

// NewCommandInvokedEvent creates a CommandInvokedEvent.
func NewCommandInvokedEvent(commandID string) CommandInvokedEvent {
	return CommandInvokedEvent{
		baseEvent: newBaseEvent(TypeCommandInvoked),
		CommandID: commandID,
	}
}
