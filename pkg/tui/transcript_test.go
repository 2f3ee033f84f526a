package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/killallgit/mull/pkg/thinking"
)

func renderText(t Transcript) string {
	var sb strings.Builder
	for _, line := range t.RenderLines() {
		sb.WriteString(line.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestTranscript(t *testing.T) {
	t.Run("should render user prompts with the prompt marker", func(t *testing.T) {
		tr := NewTranscript(80).AppendUser("hello there")

		assert.Contains(t, renderText(tr), "> hello there")
	})

	t.Run("should accumulate assistant deltas into one turn", func(t *testing.T) {
		tr := NewTranscript(80).
			AppendUser("hi").
			BeginAssistant(true, false).
			AppendAssistantDelta("partial ").
			AppendAssistantDelta("answer")

		assert.Contains(t, renderText(tr), "partial answer")
		assert.Equal(t, 2, tr.Len())
	})

	t.Run("should show the thinking header while a trace streams", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "mulling it over"})

		text := renderText(tr)
		assert.Contains(t, text, "Thinking...")
		assert.Contains(t, text, "mulling it over")
	})

	t.Run("should collapse the box to its header after completion", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "a trace"}).
			ApplyThinking(thinking.StreamCompleted{ElapsedKnown: false}).
			AppendAssistantDelta("done")

		text := renderText(tr)
		assert.Contains(t, text, "Thinking Process")
		assert.NotContains(t, text, "a trace")
	})

	t.Run("should re-expand the last box on toggle", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "a trace"}).
			ApplyThinking(thinking.StreamCompleted{ElapsedKnown: false}).
			ToggleLastThinking()

		assert.Contains(t, renderText(tr), "a trace")
	})

	t.Run("should drop the box entirely for a turn with no trace", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			AppendAssistantDelta("plain reply").
			ApplyThinking(thinking.StreamCompleted{})

		text := renderText(tr)
		assert.Contains(t, text, "plain reply")
		assert.NotContains(t, text, "Thinking")
	})

	t.Run("should route thinking events past a trailing error entry", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "trace"}).
			AppendError("connection lost").
			ApplyThinking(thinking.StreamCompleted{})

		text := renderText(tr)
		assert.Contains(t, text, "connection lost")
		assert.Contains(t, text, "Thinking Process")
	})

	t.Run("should leave mutations of an empty transcript as no-ops", func(t *testing.T) {
		tr := NewTranscript(80).
			AppendAssistantDelta("lost").
			ApplyThinking(thinking.UserToggle{}).
			ToggleLastThinking()

		assert.Equal(t, 0, tr.Len())
		assert.Empty(t, tr.RenderLines())
	})

	t.Run("should never render a box when the thinking display is off", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(false, false).
			ApplyThinking(thinking.TextAppended{Delta: "suppressed trace"}).
			AppendAssistantDelta("the reply")

		text := renderText(tr)
		assert.Contains(t, text, "the reply")
		assert.NotContains(t, text, "Thinking")
		assert.NotContains(t, text, "Waiting for thoughts")
		assert.NotContains(t, text, "suppressed trace")

		finished := tr.
			ApplyThinking(thinking.StreamCompleted{}).
			ApplyThinking(thinking.ContentFinalized{}).
			ToggleLastThinking()
		assert.NotContains(t, renderText(finished), "Thinking")
	})

	t.Run("should deliver bytes held back at stream end to the box", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "half"}).
			ApplyThinking(thinking.TextAppended{Delta: "</thi"}).
			ApplyThinking(thinking.StreamCompleted{}).
			ToggleLastThinking()

		assert.Contains(t, renderText(tr), "half</thi")
	})

	t.Run("should reload a persisted turn as a collapsed box", func(t *testing.T) {
		tr := NewTranscript(80).
			AppendCompletedAssistant("the reply", "an old trace", true, false)

		text := renderText(tr)
		assert.Contains(t, text, "the reply")
		assert.Contains(t, text, "Thinking Process")
		assert.NotContains(t, text, "an old trace")

		expanded := tr.ToggleLastThinking()
		assert.Contains(t, renderText(expanded), "an old trace")
	})

	t.Run("should reload a traceless turn without a box", func(t *testing.T) {
		tr := NewTranscript(80).
			AppendCompletedAssistant("plain answer", "", true, false)

		text := renderText(tr)
		assert.Contains(t, text, "plain answer")
		assert.NotContains(t, text, "Thinking")
	})

	t.Run("should rewrap assistant boxes on resize", func(t *testing.T) {
		tr := NewTranscript(80).
			BeginAssistant(true, false).
			ApplyThinking(thinking.TextAppended{Delta: "trace"})

		resized := tr.WithWidth(40)
		assert.Contains(t, renderText(resized), "trace")
	})
}
