package chat

import (
	"regexp"
	"strings"
)

// Reasoning models wrap their trace in <think> or <thinking> tags, spanning
// lines and in any case.
var thinkBlockRegex = regexp.MustCompile(`(?ims)<think(?:ing)?>(.*?)</think(?:ing)?>`)

// ThinkingSplit is a completed message separated into its reasoning trace
// and the response shown to the user.
type ThinkingSplit struct {
	Thinking string
	Response string
	Found    bool
}

// SplitThinking separates thinking blocks from the rest of a completed
// message. Multiple blocks are joined with a blank line; blocks that are
// blank after trimming do not count as a trace.
func SplitThinking(content string) ThinkingSplit {
	matches := thinkBlockRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return ThinkingSplit{Response: strings.TrimSpace(content)}
	}

	var parts []string
	for _, m := range matches {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return ThinkingSplit{
		Thinking: strings.Join(parts, "\n\n"),
		Response: strings.TrimSpace(thinkBlockRegex.ReplaceAllString(content, "")),
		Found:    len(parts) > 0,
	}
}

// ResponseOnly strips thinking blocks from a message, keeping the response.
func ResponseOnly(content string) string {
	return SplitThinking(content).Response
}

// IsInternalReasoningModel reports whether the model is known to reason
// internally without emitting a visible trace. Patterns match the model name
// exactly or as a prefix up to the tag separator, so "o4" covers "o4:latest".
func IsInternalReasoningModel(model string, patterns []string) bool {
	name := strings.ToLower(strings.TrimSpace(model))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if name == p || strings.HasPrefix(name, p+":") {
			return true
		}
	}
	return false
}
