// Package errors provides the error taxonomy for the PDF container. It defines
// sentinel errors, domain error types, and classification helpers used by the
// registries, the projector, the engine, and the bridge element.
//
// # Error Classes
//
// Every failure the container can produce falls into one of four classes:
//
//   - not-ready: a capability, provider or renderer is absent during startup.
//     Callers degrade silently and recover on the next state tick.
//   - configuration-invalid: duplicate ids, unresolved slot references, menu
//     commands that list unknown children. Reported by registry construction.
//   - engine-load failure: the document engine could not initialize or parse
//     the document. Surfaced as a persistent element status, never to the host.
//   - environment-unsupported: the hosting environment cannot run elements.
//     The bridge degrades to a no-op.
//
// # Usage
//
//	reg, err := component.NewRegistry(nodes...)
//	if errors.IsConfigurationInvalid(err) { ... }
//
//	var cfgErr *errors.ConfigurationError
//	if errors.As(err, &cfgErr) && cfgErr.Kind == errors.KindUnresolvedSlot { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for conditions that are expected during startup.
	SeverityDebug Severity = iota
	// SeverityWarning is for isolated failures that leave the shell usable.
	SeverityWarning
	// SeverityError is for failures that disable a whole element.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotReady indicates that a capability, provider or renderer is not
	// available yet.
	ErrNotReady = New("not ready")
	// ErrEnvironmentUnsupported indicates that the host environment cannot
	// run elements (for example, output is not a terminal).
	ErrEnvironmentUnsupported = New("environment does not support elements")
	// ErrUnknownCommand indicates that a command id is not registered.
	ErrUnknownCommand = New("unknown command")
	// ErrUnknownComponent indicates that a component id is not registered.
	ErrUnknownComponent = New("unknown component")
	// ErrNodePanic indicates that a projection or render function panicked.
	ErrNodePanic = New("node panicked")
	// ErrDisconnected indicates an operation on an element that is not connected.
	ErrDisconnected = New("element is not connected")
	// ErrEngineLoad indicates that the document engine failed to load.
	ErrEngineLoad = New("engine load failed")
)

// -----------------------------------------------------------------------------
// ConfigurationError
// -----------------------------------------------------------------------------

// ConfigurationKind identifies which static integrity rule a registry violated.
type ConfigurationKind string

const (
	KindDuplicateID       ConfigurationKind = "duplicate-id"
	KindUnresolvedSlot    ConfigurationKind = "unresolved-slot"
	KindUnknownChild      ConfigurationKind = "unknown-child"
	KindUnknownType       ConfigurationKind = "unknown-type"
	KindInvalidCommand    ConfigurationKind = "invalid-command"
	KindInvalidVisibility ConfigurationKind = "invalid-visibility"
)

// ConfigurationError is a static integrity fault found while building a
// command or component registry.
type ConfigurationError struct {
	Kind ConfigurationKind
	// ID is the command or component that carries the fault.
	ID string
	// Ref is the referenced id that could not be resolved, if any.
	Ref     string
	Message string
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(kind ConfigurationKind, id, ref string) *ConfigurationError {
	return &ConfigurationError{Kind: kind, ID: id, Ref: ref}
}

// WithMessage attaches a free-form explanation.
func (e *ConfigurationError) WithMessage(msg string) *ConfigurationError {
	e.Message = msg
	return e
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "configuration invalid (%s): %q", e.Kind, e.ID)
	if e.Ref != "" {
		fmt.Fprintf(&b, " -> %q", e.Ref)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Severity returns the error severity.
func (e *ConfigurationError) Severity() Severity { return SeverityError }

// -----------------------------------------------------------------------------
// EngineError
// -----------------------------------------------------------------------------

// EngineError reports a failure to initialize the document engine or to load
// a document through it.
type EngineError struct {
	Source string
	// Op is the stage that failed: "fetch", "parse", "extract".
	Op    string
	cause error
}

// NewEngineError creates an EngineError.
func NewEngineError(source, op string, cause error) *EngineError {
	return &EngineError{Source: source, Op: op, cause: cause}
}

// Error returns the error message.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("engine %s %q", e.Op, e.Source)
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error { return e.cause }

// Is matches ErrEngineLoad in addition to the wrapped cause.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngineLoad
}

// Severity returns the error severity.
func (e *EngineError) Severity() Severity { return SeverityError }

// -----------------------------------------------------------------------------
// NodeError
// -----------------------------------------------------------------------------

// NodeError wraps a failure that happened while projecting or rendering one
// component node. It never aborts work on sibling nodes.
type NodeError struct {
	NodeID string
	// Stage is "mount", "project" or "render".
	Stage string
	cause error
}

// NewNodeError creates a NodeError.
func NewNodeError(nodeID, stage string, cause error) *NodeError {
	return &NodeError{NodeID: nodeID, Stage: stage, cause: cause}
}

// Error returns the error message.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q %s: %v", e.NodeID, e.Stage, e.cause)
}

// Unwrap returns the underlying error.
func (e *NodeError) Unwrap() error { return e.cause }

// Severity returns the error severity.
func (e *NodeError) Severity() Severity { return SeverityWarning }

// PanicError converts a recovered panic value into an error wrapping ErrNodePanic.
func PanicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrNodePanic, err)
	}
	return fmt.Errorf("%w: %v", ErrNodePanic, r)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsNotReady returns true for startup-race conditions that resolve themselves.
func IsNotReady(err error) bool {
	return err != nil && Is(err, ErrNotReady)
}

// IsConfigurationInvalid returns true if err is or wraps a ConfigurationError.
func IsConfigurationInvalid(err error) bool {
	var cfgErr *ConfigurationError
	return err != nil && As(err, &cfgErr)
}

// IsEngineFailure returns true if err is or wraps an EngineError.
func IsEngineFailure(err error) bool {
	return err != nil && Is(err, ErrEngineLoad)
}

// GetSeverity returns the severity level of the error.
// Not-ready conditions are SeverityDebug; unknown errors default to SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	if IsNotReady(err) {
		return SeverityDebug
	}
	var sev interface{ Severity() Severity }
	if As(err, &sev) {
		return sev.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
