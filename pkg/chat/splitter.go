package chat

import (
	"strings"
	"time"
)

type splitterPhase int

const (
	phaseUndecided splitterPhase = iota
	phaseThinking
	phaseResponse
)

var (
	openTags  = []string{"<thinking>", "<think>"}
	closeTags = []string{"</thinking>", "</think>"}
)

// StreamUpdate is the routed output for one fed chunk. Either field may be
// empty when the splitter is holding bytes back to resolve a partial tag.
type StreamUpdate struct {
	ThinkingDelta string
	ResponseDelta string
}

// StreamResult is the splitter's view of a finished stream. ThinkingTail
// and ResponseTail carry bytes that were still held back when the stream
// ended and so never appeared in any Feed update; callers that render
// deltas incrementally must still deliver them.
type StreamResult struct {
	Thinking     string
	Response     string
	ThinkingTail string
	ResponseTail string
	Elapsed      time.Duration
	ElapsedKnown bool
}

// StreamSplitter separates a live content stream into a reasoning trace and
// a response. A stream that opens with a think tag is routed to the thinking
// side until the matching close tag; everything else is response. Chunks
// that may end inside a partial tag are held back until the next chunk
// resolves them, so callers only ever see clean deltas in order.
type StreamSplitter struct {
	phase    splitterPhase
	buffer   string
	thinking strings.Builder
	response strings.Builder

	thinkingStarted time.Time
	elapsed         time.Duration
	elapsedKnown    bool

	now func() time.Time
}

func NewStreamSplitter() *StreamSplitter {
	return &StreamSplitter{now: time.Now}
}

// Feed routes one chunk. Deltas are emitted in the order the stream
// produced them; the splitter never reorders content.
func (s *StreamSplitter) Feed(delta string) StreamUpdate {
	s.buffer += delta

	var update StreamUpdate
	for {
		advanced := false

		switch s.phase {
		case phaseUndecided:
			advanced = s.decide()
		case phaseThinking:
			advanced = s.drainThinking(&update)
		case phaseResponse:
			update.ResponseDelta += s.buffer
			s.response.WriteString(s.buffer)
			s.buffer = ""
		}

		if !advanced {
			return update
		}
	}
}

// decide inspects the buffered stream head for an opening think tag.
// Returns true when the phase changed and the buffer should be reprocessed.
func (s *StreamSplitter) decide() bool {
	head := strings.TrimLeft(s.buffer, " \t\r\n")
	if head == "" {
		return false
	}

	for _, tag := range openTags {
		if strings.HasPrefix(head, tag) {
			s.phase = phaseThinking
			s.thinkingStarted = s.now()
			s.buffer = head[len(tag):]
			return true
		}
	}

	// The head may still grow into an opening tag.
	for _, tag := range openTags {
		if strings.HasPrefix(tag, head) {
			return false
		}
	}

	s.phase = phaseResponse
	return true
}

// drainThinking emits buffered thinking content, watching for the close tag.
// The earliest close tag in the buffer wins, so the split cannot depend on
// how the stream happened to be chunked.
func (s *StreamSplitter) drainThinking(update *StreamUpdate) bool {
	closeIdx, closeLen := -1, 0
	for _, tag := range closeTags {
		idx := strings.Index(s.buffer, tag)
		if idx >= 0 && (closeIdx < 0 || idx < closeIdx) {
			closeIdx, closeLen = idx, len(tag)
		}
	}
	if closeIdx >= 0 {
		body := s.buffer[:closeIdx]
		update.ThinkingDelta += body
		s.thinking.WriteString(body)
		s.buffer = s.buffer[closeIdx+closeLen:]

		s.elapsed = s.now().Sub(s.thinkingStarted)
		s.elapsedKnown = true
		s.phase = phaseResponse
		return true
	}

	// Hold back any suffix that could be a partial close tag.
	hold := partialTagSuffix(s.buffer)
	emit := s.buffer[:len(s.buffer)-len(hold)]
	if emit != "" {
		update.ThinkingDelta += emit
		s.thinking.WriteString(emit)
		s.buffer = hold
	}
	return false
}

// partialTagSuffix returns the longest suffix of buf that is a proper
// prefix of a closing think tag.
func partialTagSuffix(buf string) string {
	maxLen := len("</thinking>") - 1
	if maxLen > len(buf) {
		maxLen = len(buf)
	}
	for n := maxLen; n > 0; n-- {
		suffix := buf[len(buf)-n:]
		for _, tag := range closeTags {
			if strings.HasPrefix(tag, suffix) {
				return suffix
			}
		}
	}
	return ""
}

// Finish flushes any held-back bytes and reports totals. A stream that ends
// inside an unclosed thinking block keeps its trace; elapsed time is then
// measured to the end of the stream.
func (s *StreamSplitter) Finish() StreamResult {
	var thinkingTail, responseTail string
	switch s.phase {
	case phaseThinking:
		thinkingTail = s.buffer
		s.thinking.WriteString(s.buffer)
		if !s.elapsedKnown {
			s.elapsed = s.now().Sub(s.thinkingStarted)
			s.elapsedKnown = true
		}
	default:
		responseTail = s.buffer
		s.response.WriteString(s.buffer)
	}
	s.buffer = ""

	return StreamResult{
		Thinking:     strings.TrimSpace(s.thinking.String()),
		Response:     strings.TrimSpace(s.response.String()),
		ThinkingTail: thinkingTail,
		ResponseTail: responseTail,
		Elapsed:      s.elapsed,
		ElapsedKnown: s.elapsedKnown,
	}
}

// InThinking reports whether the splitter is currently inside a thinking
// block.
func (s *StreamSplitter) InThinking() bool {
	return s.phase == phaseThinking
}
