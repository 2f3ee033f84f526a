package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/killallgit/mull/pkg/thinking"
)

const (
	markerCollapsed = "▸"
	markerExpanded  = "▾"
)

// ThinkingBoxComponent renders one turn's reasoning state. Like the other
// components it is an immutable value: every mutation returns a copy, and
// all policy decisions come from the embedded thinking.Box reducer.
type ThinkingBoxComponent struct {
	Box     thinking.Box
	Width   int
	Shimmer ShimmerComponent

	markdown *MarkdownFormatter

	headerStyle tcell.Style
	bodyStyle   tcell.Style
	mutedStyle  tcell.Style
}

// NewThinkingBoxComponent builds a component for a turn that is still
// streaming.
func NewThinkingBoxComponent(width int, internalOnly bool) ThinkingBoxComponent {
	return newComponent(thinking.NewBox(internalOnly), width)
}

// NewCompletedThinkingBoxComponent builds a component for a turn reloaded
// from history.
func NewCompletedThinkingBoxComponent(width int, text string, internalOnly, finalized bool) ThinkingBoxComponent {
	return newComponent(thinking.NewCompletedBox(text, internalOnly, finalized), width)
}

func newComponent(box thinking.Box, width int) ThinkingBoxComponent {
	md, err := NewMarkdownFormatter(bodyWidth(width))
	if err != nil {
		// The formatter only fails on malformed style configuration; the
		// fallback path inside Format still renders plain text.
		md = &MarkdownFormatter{width: bodyWidth(width)}
	}

	return ThinkingBoxComponent{
		Box:         box,
		Width:       width,
		Shimmer:     NewShimmerComponent(),
		markdown:    md,
		headerStyle: tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true),
		bodyStyle:   tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Italic(true),
		mutedStyle:  tcell.StyleDefault.Foreground(tcell.ColorDarkGray).Dim(true),
	}
}

func bodyWidth(width int) int {
	if width <= 4 {
		return width
	}
	return width - 4
}

// ApplyEvent routes a reducer event through the box state.
func (c ThinkingBoxComponent) ApplyEvent(ev thinking.Event) ThinkingBoxComponent {
	c.Box = c.Box.Apply(ev)
	return c
}

// Toggle requests an expand/collapse flip. The reducer decides whether the
// request is honored.
func (c ThinkingBoxComponent) Toggle() ThinkingBoxComponent {
	return c.ApplyEvent(thinking.UserToggle{})
}

// WithWidth resizes the component.
func (c ThinkingBoxComponent) WithWidth(width int) ThinkingBoxComponent {
	if width == c.Width {
		return c
	}
	return newComponent(c.Box, width)
}

// Tick advances the shimmer animation.
func (c ThinkingBoxComponent) Tick() ThinkingBoxComponent {
	c.Shimmer = c.Shimmer.NextFrame()
	return c
}

// RenderLines produces the component's lines for cell drawing. A hidden box
// renders nothing; a collapsed box renders exactly the header line.
func (c ThinkingBoxComponent) RenderLines() []FormattedLine {
	if !c.Box.Visible() {
		return nil
	}

	header := FormattedLine{
		Content: c.marker() + " " + c.Box.HeaderLabel(),
		Style:   c.headerStyle,
	}

	if c.Box.State() != thinking.StateExpanded {
		return []FormattedLine{header}
	}

	lines := []FormattedLine{header}
	for _, body := range c.bodyLines() {
		body.Content = "  " + body.Content
		lines = append(lines, body)
	}
	return lines
}

func (c ThinkingBoxComponent) bodyLines() []FormattedLine {
	switch c.Box.Mode() {
	case thinking.RenderShimmer:
		return []FormattedLine{
			{Content: thinking.PlaceholderInternal, Style: c.bodyStyle},
			{Content: c.Shimmer.Line(bodyWidth(c.Width) / 2), Style: c.Shimmer.Style},
		}
	case thinking.RenderMarkdown:
		return c.markdown.Format(c.Box.Text(), c.bodyStyle)
	case thinking.RenderWaiting:
		return []FormattedLine{{Content: thinking.PlaceholderWaiting, Style: c.mutedStyle}}
	case thinking.RenderEmptyNotice:
		return []FormattedLine{{Content: thinking.PlaceholderEmpty, Style: c.mutedStyle}}
	default:
		return nil
	}
}

// marker shows the toggle affordance, or the busy shimmer glyph while
// streaming with nothing to toggle to.
func (c ThinkingBoxComponent) marker() string {
	if c.Box.Busy() {
		return c.Shimmer.Glyph()
	}
	if c.Box.State() == thinking.StateExpanded {
		return markerExpanded
	}
	return markerCollapsed
}

// Height reports the rendered line count.
func (c ThinkingBoxComponent) Height() int {
	return len(c.RenderLines())
}
