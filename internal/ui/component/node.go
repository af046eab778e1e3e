package component

import (
	"maps"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Type is a node's component type.
type Type string

// Component types understood by the layout.
const (
	TypeHeader       Type = "header"
	TypePanel        Type = "panel"
	TypeGroupedItems Type = "groupedItems"
	TypeFloating     Type = "floating"
	TypeCommandMenu  Type = "commandMenu"
	TypeIconButton   Type = "iconButton"
	TypeSelectButton Type = "selectButton"
	TypeCustom       Type = "custom"
)

// Props are the render props of a node.
type Props map[string]any

// Context is the directional layout context inherited by descendants.
type Context map[string]any

// Slot places a child component inside a container.
type Slot struct {
	ComponentID string
	Priority    int
	// Visibility is an optional responsive class list, for example
	// "hidden @min-400:block @min-600:hidden".
	Visibility string
}

// Node is a UI component descriptor.
type Node struct {
	ID   string
	Type Type
	// Render names the renderer for custom and floating nodes. When empty
	// the node is rendered by the renderer registered for Type.
	Render string

	// InitialState seeds the instance's local state on mount.
	InitialState map[string]any
	// Props are static base props. PropsFunc, when set, derives the base
	// props from the initial state and takes precedence.
	Props     Props
	PropsFunc func(initial map[string]any) Props
	// MapStateToProps projects the shared state onto render props. It must
	// be a pure function of its inputs.
	MapStateToProps func(state store.State, own Props) Props

	Slots []Slot

	// ChildContext is a static context for descendants; ChildContextFunc
	// derives it from the node's current props and takes precedence.
	ChildContext     Context
	ChildContextFunc func(props Props) Context
}

// RenderKey is the key used to look the node's renderer up.
func (n *Node) RenderKey() string {
	if n.Render != "" {
		return n.Render
	}
	return string(n.Type)
}

// Container reports whether the node declares child slots.
func (n *Node) Container() bool {
	return len(n.Slots) > 0
}

// baseProps computes the props a node starts from before projection.
func (n *Node) baseProps(initial map[string]any) Props {
	if n.PropsFunc != nil {
		return n.PropsFunc(maps.Clone(initial))
	}
	return maps.Clone(n.Props)
}

// childContext merges the node's own child context over the inherited one.
func (n *Node) childContext(inherited Context, props Props) Context {
	var own Context
	switch {
	case n.ChildContextFunc != nil:
		own = n.ChildContextFunc(props)
	case n.ChildContext != nil:
		own = n.ChildContext
	}
	return MergeContext(inherited, own)
}

// MergeContext returns a new context with child's keys overriding parent's.
func MergeContext(parent, child Context) Context {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	out := make(Context, len(parent)+len(child))
	maps.Copy(out, parent)
	maps.Copy(out, child)
	return out
}

// With returns a copy of p with the given key/value pairs set.
func (p Props) With(kv ...any) Props {
	out := maps.Clone(p)
	if out == nil {
		out = make(Props, len(kv)/2)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			out[k] = kv[i+1]
		}
	}
	return out
}

// String returns the string prop key, or "" if absent.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Bool returns the bool prop key, or false if absent.
func (p Props) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Int returns the integer prop key, or 0 if absent.
func (p Props) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Float returns the numeric prop key as float64, or 0 if absent.
func (p Props) Float(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Decode copies the props into a typed struct using mapstructure tags.
func (p Props) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "prop",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(p))
}

// String returns the string context value for key.
func (c Context) String(key string) string {
	s, _ := c[key].(string)
	return s
}
