// Package command implements the command registry: named actions bound to a
// capability-provider lookup, with active, disabled, label and icon
// derivations computed from the shared state tree.
package command

import (
	"fmt"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/logging"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Type distinguishes leaf actions from menus.
type Type string

const (
	// Action commands run their Action function when invoked.
	Action Type = "action"
	// Menu commands only list Children; a command-menu node displays them.
	Menu Type = "menu"
)

// Capabilities resolves capability providers by plugin identifier. A missing
// provider means the plugin has not booted yet.
type Capabilities interface {
	Capability(id store.PluginID) (any, bool)
}

// Command describes one named command.
type Command struct {
	ID string
	// Label is the static label; LabelFunc, when set, takes precedence.
	Label     string
	LabelFunc func(store.State) string
	Icon      string
	Type      Type
	// Children lists command ids shown when a Menu command is active.
	Children []string

	// Action performs the command. It must treat absent capabilities as
	// "not ready" and return without effect.
	Action    func(caps Capabilities, state store.State)
	Active    func(store.State) bool
	Disabled  func(store.State) bool
	IconProps func(store.State) map[string]any
}

// Registry holds validated commands keyed by id.
type Registry struct {
	commands map[string]Command
	order    []string
	logger   *logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for isolated command failures.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry validates cmds and builds a Registry. Every integrity problem
// is reported, joined into one error:
//   - duplicate ids,
//   - menu commands without children or with an Action,
//   - action commands with children,
//   - menu children that are not registered.
func NewRegistry(cmds []Command, opts ...Option) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]Command, len(cmds)),
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("command")

	var errs []error
	for _, c := range cmds {
		if c.ID == "" {
			errs = append(errs, errors.NewConfigurationError(errors.KindInvalidCommand, "", "").WithMessage("empty command id"))
			continue
		}
		if _, dup := r.commands[c.ID]; dup {
			errs = append(errs, errors.NewConfigurationError(errors.KindDuplicateID, c.ID, ""))
			continue
		}
		if c.Type == "" {
			c.Type = Action
		}
		switch c.Type {
		case Menu:
			if len(c.Children) == 0 {
				errs = append(errs, errors.NewConfigurationError(errors.KindInvalidCommand, c.ID, "").WithMessage("menu has no children"))
			}
			if c.Action != nil {
				errs = append(errs, errors.NewConfigurationError(errors.KindInvalidCommand, c.ID, "").WithMessage("menu must not define an action"))
			}
		case Action:
			if len(c.Children) > 0 {
				errs = append(errs, errors.NewConfigurationError(errors.KindInvalidCommand, c.ID, "").WithMessage("action must not list children"))
			}
		default:
			errs = append(errs, errors.NewConfigurationError(errors.KindInvalidCommand, c.ID, "").WithMessage(fmt.Sprintf("unknown type %q", c.Type)))
		}
		r.commands[c.ID] = c
		r.order = append(r.order, c.ID)
	}

	for _, id := range r.order {
		for _, child := range r.commands[id].Children {
			if _, ok := r.commands[child]; !ok {
				errs = append(errs, errors.NewConfigurationError(errors.KindUnknownChild, id, child))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Get returns the command registered under id.
func (r *Registry) Get(id string) (Command, bool) {
	c, ok := r.commands[id]
	return c, ok
}

// IDs returns all command ids in declaration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Children returns the child commands of a menu in declaration order.
func (r *Registry) Children(id string) []Command {
	c, ok := r.commands[id]
	if !ok {
		return nil
	}
	out := make([]Command, 0, len(c.Children))
	for _, child := range c.Children {
		out = append(out, r.commands[child])
	}
	return out
}

// Invoke runs an action command. Menu commands have no direct effect, and an
// action whose capability is missing is a silent no-op. A panicking action is
// recovered and reported without affecting the caller.
func (r *Registry) Invoke(id string, caps Capabilities, state store.State) (err error) {
	c, ok := r.commands[id]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownCommand, id)
	}
	if c.Type == Menu || c.Action == nil || caps == nil {
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = errors.NewNodeError(id, "invoke", errors.PanicError(rec))
			r.logger.Warn("command panicked", "command_id", id, "error", err)
		}
	}()
	c.Action(caps, state)
	return nil
}

// IsActive reports the command's active flag; false without an Active function.
func (r *Registry) IsActive(id string, state store.State) bool {
	c, ok := r.commands[id]
	if !ok || c.Active == nil {
		return false
	}
	return r.safeBool(id, "active", c.Active, state)
}

// IsDisabled reports the command's disabled flag; false without a Disabled function.
func (r *Registry) IsDisabled(id string, state store.State) bool {
	c, ok := r.commands[id]
	if !ok || c.Disabled == nil {
		return false
	}
	return r.safeBool(id, "disabled", c.Disabled, state)
}

func (r *Registry) safeBool(id, what string, fn func(store.State) bool, state store.State) (v bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("command derivation panicked", "command_id", id, "derivation", what, "panic", fmt.Sprint(rec))
			v = false
		}
	}()
	return fn(state)
}

// ResolveLabel returns the label for the current state, falling back to the id.
func (r *Registry) ResolveLabel(id string, state store.State) (label string) {
	c, ok := r.commands[id]
	if !ok {
		return id
	}
	if c.LabelFunc != nil {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Warn("command label panicked", "command_id", id, "panic", fmt.Sprint(rec))
				label = c.Label
			}
		}()
		return c.LabelFunc(state)
	}
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// ResolveIcon returns the icon name and the state-derived icon props.
func (r *Registry) ResolveIcon(id string, state store.State) (icon string, props map[string]any) {
	c, ok := r.commands[id]
	if !ok {
		return "", nil
	}
	if c.IconProps == nil {
		return c.Icon, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("command icon props panicked", "command_id", id, "panic", fmt.Sprint(rec))
			icon, props = c.Icon, nil
		}
	}()
	return c.Icon, c.IconProps(state)
}
