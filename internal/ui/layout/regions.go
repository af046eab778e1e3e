// Package layout places mounted root nodes into the viewer's fixed regions and
// composes the rendered regions into the terminal skeleton.
package layout

import (
	"github.com/Iron-Ham/pdfcontainer/internal/ui/component"
)

// Placement is a header position.
type Placement string

const (
	Top    Placement = "top"
	Left   Placement = "left"
	Right  Placement = "right"
	Bottom Placement = "bottom"
)

// Regions buckets root node ids by placement, in declaration order.
type Regions struct {
	Headers map[Placement][]string
	// Panels are keyed by location, Left or Right.
	Panels          map[Placement][]string
	InsideScroller  []string
	OutsideScroller []string
	CommandMenu     []string
}

// Resolve reads the mounted roots of tree and assigns each to its region:
// headers by their "placement" prop (default top), panels by their
// "location" prop (default left), floating nodes by their "scrollerPosition"
// prop (default inside) and command menus to the command-menu region. Roots
// of any other type, and roots that are not mounted, are not placed.
func Resolve(tree *component.Tree) Regions {
	r := Regions{
		Headers: make(map[Placement][]string),
		Panels:  make(map[Placement][]string),
	}
	reg := tree.Registry()
	for _, id := range reg.Roots() {
		inst, ok := tree.Instance(id)
		if !ok {
			continue
		}
		node, _ := reg.Get(id)
		switch node.Type {
		case component.TypeHeader:
			p := placement(inst.Props.String("placement"), Top)
			r.Headers[p] = append(r.Headers[p], id)
		case component.TypePanel:
			p := placement(inst.Props.String("location"), Left)
			if p != Right {
				p = Left
			}
			r.Panels[p] = append(r.Panels[p], id)
		case component.TypeFloating:
			if inst.Props.String("scrollerPosition") == "outside" {
				r.OutsideScroller = append(r.OutsideScroller, id)
			} else {
				r.InsideScroller = append(r.InsideScroller, id)
			}
		case component.TypeCommandMenu:
			r.CommandMenu = append(r.CommandMenu, id)
		}
	}
	return r
}

func placement(v string, fallback Placement) Placement {
	switch p := Placement(v); p {
	case Top, Left, Right, Bottom:
		return p
	default:
		return fallback
	}
}

// Empty reports whether no root was placed.
func (r Regions) Empty() bool {
	n := len(r.InsideScroller) + len(r.OutsideScroller) + len(r.CommandMenu)
	for _, ids := range r.Headers {
		n += len(ids)
	}
	for _, ids := range r.Panels {
		n += len(ids)
	}
	return n == 0
}
