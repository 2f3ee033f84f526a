package tui

import (
	"regexp"
	"strings"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI color sequences so text can be drawn cell by cell.
func StripANSI(text string) string {
	return ansiRegex.ReplaceAllString(text, "")
}

// WrapText breaks text into lines no wider than width, preferring to break
// at spaces. Explicit newlines are respected.
func WrapText(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(paragraph, width)...)
	}
	return lines
}

func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}

	var lines []string
	for len(runes) > 0 {
		if len(runes) <= width {
			lines = append(lines, string(runes))
			break
		}

		breakPos := width
		for i := width - 1; i >= 0; i-- {
			if runes[i] == ' ' {
				breakPos = i
				break
			}
		}

		lines = append(lines, strings.TrimRight(string(runes[:breakPos]), " "))
		runes = runes[breakPos:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	return lines
}

// TruncateLine cuts a line to width runes, marking the cut with an ellipsis.
func TruncateLine(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
