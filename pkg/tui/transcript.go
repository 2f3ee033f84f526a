package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/killallgit/mull/pkg/thinking"
)

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryError
)

// entry is one transcript item. Assistant entries carry a thinking box
// component alongside the streamed response text; hasBox is false when the
// user has switched the thinking display off for this session.
type entry struct {
	kind     entryKind
	text     string
	hasBox   bool
	thinking ThinkingBoxComponent
}

// Transcript is the immutable ordered chat history as displayed. Every
// mutation returns a copy so the event loop can treat it as a value.
type Transcript struct {
	entries []entry
	width   int
}

func NewTranscript(width int) Transcript {
	return Transcript{width: width}
}

// AppendUser adds a user prompt line.
func (t Transcript) AppendUser(text string) Transcript {
	return t.append(entry{kind: entryUser, text: text})
}

// AppendError adds an error line.
func (t Transcript) AppendError(text string) Transcript {
	return t.append(entry{kind: entryError, text: text})
}

// BeginAssistant opens a new assistant turn. When showBox is false the turn
// renders response text only; no thinking box ever appears for it.
func (t Transcript) BeginAssistant(showBox, internalOnly bool) Transcript {
	return t.append(entry{
		kind:     entryAssistant,
		hasBox:   showBox,
		thinking: NewThinkingBoxComponent(t.width, internalOnly),
	})
}

// AppendCompletedAssistant adds an assistant turn reloaded from history.
// The box arrives already collapsed; a turn persisted without a trace shows
// no box at all.
func (t Transcript) AppendCompletedAssistant(text, trace string, showBox, internalOnly bool) Transcript {
	return t.append(entry{
		kind:     entryAssistant,
		text:     text,
		hasBox:   showBox,
		thinking: NewCompletedThinkingBoxComponent(t.width, trace, internalOnly, trace != ""),
	})
}

// AppendAssistantDelta appends streamed response text to the open
// assistant turn. A no-op when the last entry is not an assistant turn.
func (t Transcript) AppendAssistantDelta(delta string) Transcript {
	return t.updateLastAssistant(func(e entry) entry {
		e.text += delta
		return e
	})
}

// SetAssistantText replaces the open assistant turn's text with the
// stream's authoritative final response, covering bytes the splitter held
// back at stream end.
func (t Transcript) SetAssistantText(text string) Transcript {
	return t.updateLastAssistant(func(e entry) entry {
		e.text = text
		return e
	})
}

// ApplyThinking routes a reducer event to the open assistant turn's box.
func (t Transcript) ApplyThinking(ev thinking.Event) Transcript {
	return t.updateLastAssistant(func(e entry) entry {
		e.thinking = e.thinking.ApplyEvent(ev)
		return e
	})
}

// ToggleLastThinking flips the most recent assistant turn's box.
func (t Transcript) ToggleLastThinking() Transcript {
	return t.updateLastAssistant(func(e entry) entry {
		e.thinking = e.thinking.Toggle()
		return e
	})
}

// Tick advances shimmer animation on the open assistant turn.
func (t Transcript) Tick() Transcript {
	return t.updateLastAssistant(func(e entry) entry {
		e.thinking = e.thinking.Tick()
		return e
	})
}

// WithWidth rewraps the transcript for a resized terminal.
func (t Transcript) WithWidth(width int) Transcript {
	if width == t.width {
		return t
	}
	entries := make([]entry, len(t.entries))
	copy(entries, t.entries)
	for i := range entries {
		if entries[i].kind == entryAssistant {
			entries[i].thinking = entries[i].thinking.WithWidth(width)
		}
	}
	return Transcript{entries: entries, width: width}
}

// RenderLines flattens the transcript into styled lines, oldest first.
// Assistant turns render their thinking box above the response text.
func (t Transcript) RenderLines() []FormattedLine {
	userStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	assistantStyle := tcell.StyleDefault
	errorStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)

	var lines []FormattedLine
	for i, e := range t.entries {
		if i > 0 {
			lines = append(lines, FormattedLine{})
		}

		switch e.kind {
		case entryUser:
			lines = appendWrapped(lines, "> "+e.text, t.width, userStyle)
		case entryError:
			lines = appendWrapped(lines, e.text, t.width, errorStyle)
		case entryAssistant:
			if e.hasBox {
				box := e.thinking.RenderLines()
				lines = append(lines, box...)
				if len(box) > 0 && e.text != "" {
					lines = append(lines, FormattedLine{})
				}
			}
			lines = appendWrapped(lines, e.text, t.width, assistantStyle)
		}
	}
	return lines
}

// Len reports the entry count.
func (t Transcript) Len() int {
	return len(t.entries)
}

func (t Transcript) append(e entry) Transcript {
	entries := make([]entry, len(t.entries), len(t.entries)+1)
	copy(entries, t.entries)
	return Transcript{entries: append(entries, e), width: t.width}
}

func (t Transcript) updateLastAssistant(fn func(entry) entry) Transcript {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].kind != entryAssistant {
			continue
		}
		entries := make([]entry, len(t.entries))
		copy(entries, t.entries)
		entries[i] = fn(entries[i])
		return Transcript{entries: entries, width: t.width}
	}
	return t
}

func appendWrapped(lines []FormattedLine, text string, width int, style tcell.Style) []FormattedLine {
	if text == "" {
		return lines
	}
	for _, wrapped := range WrapText(text, width) {
		lines = append(lines, FormattedLine{Content: wrapped, Style: style})
	}
	return lines
}
