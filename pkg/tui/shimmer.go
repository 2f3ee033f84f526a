package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

var shimmerFrames = []string{"░", "▒", "▓", "█", "▓", "▒"}

// ShimmerComponent animates the placeholder shown while an internal-only
// model reasons without emitting text. Purely cosmetic; it carries no
// semantic state.
type ShimmerComponent struct {
	Frame int
	Style tcell.Style
}

func NewShimmerComponent() ShimmerComponent {
	return ShimmerComponent{
		Style: tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

func (sc ShimmerComponent) NextFrame() ShimmerComponent {
	sc.Frame = (sc.Frame + 1) % len(shimmerFrames)
	return sc
}

// Glyph returns the current animation character.
func (sc ShimmerComponent) Glyph() string {
	return shimmerFrames[sc.Frame]
}

// Line renders a pulsing bar of the given width.
func (sc ShimmerComponent) Line(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(sc.Glyph(), width)
}

// ShimmerFrameCount returns the animation cycle length.
func ShimmerFrameCount() int {
	return len(shimmerFrames)
}
