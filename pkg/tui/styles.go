package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/killallgit/mull/pkg/thinking"
)

// Lipgloss styles for line-oriented output (headless mode and transcripts
// written to a real terminal rather than a cell grid).
var (
	thinkingBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#555555")).
				Padding(0, 1).
				Foreground(lipgloss.Color("#888888")).
				Italic(true)

	thinkingHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#aaaaaa")).
				Bold(true)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

// RenderBoxText renders a thinking box as a bordered block of text. The
// collapsed form is the bordered header line alone; the expanded form adds
// the body with fenced code blocks run through the syntax highlighter.
func RenderBoxText(box thinking.Box, width int, hl *SyntaxHighlighter) string {
	if !box.Visible() {
		return ""
	}

	header := thinkingHeaderStyle.Render(box.HeaderLabel())
	if box.State() != thinking.StateExpanded {
		return thinkingBoxStyle.Width(width).Render(header)
	}

	var body string
	switch box.Mode() {
	case thinking.RenderShimmer:
		body = mutedTextStyle.Render(thinking.PlaceholderInternal)
	case thinking.RenderMarkdown:
		body = highlightFences(box.Text(), hl)
	case thinking.RenderWaiting:
		body = mutedTextStyle.Render(thinking.PlaceholderWaiting)
	case thinking.RenderEmptyNotice:
		body = mutedTextStyle.Render(thinking.PlaceholderEmpty)
	}

	return thinkingBoxStyle.Width(width).Render(header + "\n\n" + body)
}

// highlightFences passes fenced code blocks through chroma and leaves the
// surrounding prose alone.
func highlightFences(text string, hl *SyntaxHighlighter) string {
	if hl == nil {
		return text
	}

	var (
		out     []string
		code    []string
		lang    string
		inFence bool
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				out = append(out, strings.TrimRight(hl.Highlight(strings.Join(code, "\n"), lang), "\n"))
				code = nil
				inFence = false
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
				inFence = true
			}
			continue
		}

		if inFence {
			code = append(code, line)
		} else {
			out = append(out, line)
		}
	}

	// Unterminated fence: keep the code verbatim rather than dropping it.
	if inFence {
		out = append(out, code...)
	}

	return strings.Join(out, "\n")
}
