package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/gdamore/tcell/v2"

	"github.com/killallgit/mull/pkg/logger"
)

// FormattedLine is one renderable line with its cell style.
type FormattedLine struct {
	Content string
	Style   tcell.Style
}

// MarkdownFormatter renders reasoning text through glamour. The "notty"
// style keeps the structural rendering (headings, lists, tables, code
// fences) while leaving colors to the widget; GFM extensions including
// tables and strikethrough are part of glamour's default parser.
type MarkdownFormatter struct {
	width    int
	renderer *glamour.TermRenderer
}

func NewMarkdownFormatter(width int) (*MarkdownFormatter, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	return &MarkdownFormatter{
		width:    width,
		renderer: renderer,
	}, nil
}

// Format renders content as markdown lines. If glamour fails the content is
// wrapped as plain text instead; the widget never surfaces a render error.
func (mf *MarkdownFormatter) Format(content string, style tcell.Style) []FormattedLine {
	log := logger.WithComponent("markdown")

	if mf.renderer == nil {
		return plainLines(WrapText(content, mf.width), style)
	}

	rendered, err := mf.renderer.Render(content)
	if err != nil {
		log.Error("glamour render failed, falling back to plain text", "error", err)
		return plainLines(WrapText(content, mf.width), style)
	}

	clean := strings.TrimRight(StripANSI(rendered), "\n")
	var lines []FormattedLine
	for _, line := range strings.Split(clean, "\n") {
		lines = append(lines, FormattedLine{
			Content: strings.TrimRight(line, " \t"),
			Style:   style,
		})
	}
	return lines
}

func plainLines(raw []string, style tcell.Style) []FormattedLine {
	lines := make([]FormattedLine, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, FormattedLine{Content: line, Style: style})
	}
	return lines
}
