package component

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// displayTokens maps the recognized display utilities to visibility.
var displayTokens = map[string]bool{
	"hidden":       false,
	"block":        true,
	"inline":       true,
	"inline-block": true,
	"flex":         true,
	"inline-flex":  true,
	"grid":         true,
}

type breakpointRule struct {
	width   int
	visible bool
}

// Visibility is a parsed responsive visibility class. The zero value is
// always visible.
type Visibility struct {
	base *bool
	min  []breakpointRule
	max  []breakpointRule
}

// ParseVisibility parses a space separated class list. Display utilities may
// be prefixed by a container breakpoint, "@min-N:" or "@max-N:", where N is
// a width in cells and may also be written "[Npx]". Tokens that carry no
// display meaning are ignored.
func ParseVisibility(class string) (Visibility, error) {
	var v Visibility
	for _, tok := range strings.Fields(class) {
		if !strings.HasPrefix(tok, "@") {
			if visible, ok := displayTokens[tok]; ok {
				v.base = &visible
			}
			continue
		}

		variant, utility, ok := strings.Cut(tok[1:], ":")
		if !ok {
			return Visibility{}, fmt.Errorf("visibility %q: missing utility in %q", class, tok)
		}
		visible, known := displayTokens[utility]
		if !known {
			continue
		}

		var isMin bool
		var raw string
		switch {
		case strings.HasPrefix(variant, "min-"):
			isMin, raw = true, variant[len("min-"):]
		case strings.HasPrefix(variant, "max-"):
			raw = variant[len("max-"):]
		default:
			return Visibility{}, fmt.Errorf("visibility %q: unknown variant %q", class, variant)
		}

		width, err := parseBreakpoint(raw)
		if err != nil {
			return Visibility{}, fmt.Errorf("visibility %q: %w", class, err)
		}
		rule := breakpointRule{width: width, visible: visible}
		if isMin {
			v.min = append(v.min, rule)
		} else {
			v.max = append(v.max, rule)
		}
	}

	sort.SliceStable(v.min, func(i, j int) bool { return v.min[i].width < v.min[j].width })
	sort.SliceStable(v.max, func(i, j int) bool { return v.max[i].width > v.max[j].width })
	return v, nil
}

func parseBreakpoint(raw string) (int, error) {
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		raw = strings.TrimSuffix(raw[1:len(raw)-1], "px")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid breakpoint %q", raw)
	}
	return n, nil
}

// Visible evaluates the class at the given container width. Base utilities
// apply first, then max-width rules from widest to narrowest, then min-width
// rules from narrowest to widest; the last matching rule wins.
func (v Visibility) Visible(width int) bool {
	visible := true
	if v.base != nil {
		visible = *v.base
	}
	for _, r := range v.max {
		if width < r.width {
			visible = r.visible
		}
	}
	for _, r := range v.min {
		if width >= r.width {
			visible = r.visible
		}
	}
	return visible
}
