package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// OverlayAt composites overlay on top of base with its top-left corner at
// column x, row y. Rows outside base are dropped; width pads base lines so
// the overlay can sit past their end.
func OverlayAt(base, overlay string, x, y, width int) string {
	if overlay == "" {
		return base
	}
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := MaxLineWidth(overlayLines)
	if x < 0 {
		x = 0
	}

	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		overlayLine := padRight(line, overlayWidth)
		right := ansi.TruncateLeft(target, x+ansi.StringWidth(overlayLine), "")
		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// MaxLineWidth returns the visual width of the widest line.
func MaxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
