// Package thinking holds the display state for a single assistant turn's
// reasoning stream: whether the thinking box is shown at all, whether it is
// expanded or collapsed, and which placeholder or body to render. All state
// changes go through a single reducer so the latch semantics live in one place.
package thinking

import (
	"fmt"
	"strings"
	"time"
)

// DisplayState is the visual state of the thinking box.
type DisplayState int

const (
	// StateHidden renders nothing at all.
	StateHidden DisplayState = iota
	// StateExpanded shows the header and the full body.
	StateExpanded
	// StateCollapsed shows only the header line.
	StateCollapsed
)

func (s DisplayState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateExpanded:
		return "expanded"
	case StateCollapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// RenderMode selects what the expanded body shows.
type RenderMode int

const (
	// RenderNothing means the box is not visible.
	RenderNothing RenderMode = iota
	// RenderShimmer is the animated placeholder for models that reason
	// internally without emitting a visible trace.
	RenderShimmer
	// RenderMarkdown renders the accumulated text through the markdown pipeline.
	RenderMarkdown
	// RenderWaiting is the placeholder while streaming with no text yet.
	RenderWaiting
	// RenderEmptyNotice is the placeholder when the turn finished with no text.
	RenderEmptyNotice
)

// Placeholder copy for the non-markdown render modes.
const (
	PlaceholderWaiting  = "Waiting for thoughts..."
	PlaceholderEmpty    = "No thinking process was generated."
	PlaceholderInternal = "The model is reasoning internally. Its thought process is not exposed."
)

// Event is one input to the reducer. The four concrete events cover chunk
// arrival, stream completion, durable persistence, and user interaction.
type Event interface {
	isEvent()
}

// TextAppended delivers one chunk of reasoning text.
type TextAppended struct {
	Delta string
}

// StreamCompleted signals that no further text will arrive for this turn.
// Elapsed is the wall-clock duration of the reasoning phase when known.
type StreamCompleted struct {
	Elapsed      time.Duration
	ElapsedKnown bool
}

// ContentFinalized signals that the turn's reasoning has been durably
// recorded, which may lag or lead stream completion.
type ContentFinalized struct{}

// UserToggle is a request to flip between expanded and collapsed.
type UserToggle struct{}

func (TextAppended) isEvent()     {}
func (StreamCompleted) isEvent()  {}
func (ContentFinalized) isEvent() {}
func (UserToggle) isEvent()       {}

// Box is the state value for one turn's thinking display. It is an immutable
// value: Apply returns an updated copy and never mutates the receiver, so a
// Box can be stored in component state the same way the other TUI components
// store theirs.
type Box struct {
	text             string
	state            DisplayState
	hasContent       bool
	streamComplete   bool
	contentFinalized bool
	internalOnly     bool
	elapsed          time.Duration
	elapsedKnown     bool
}

// NewBox creates the state for a turn that is still streaming. Streaming
// turns start expanded. internalOnly marks models known to reason without
// surfacing text; those count as having content from the start so the box
// stays visible while the model works.
func NewBox(internalOnly bool) Box {
	return Box{
		state:        StateExpanded,
		internalOnly: internalOnly,
		hasContent:   internalOnly,
	}
}

// NewCompletedBox creates the state for a turn reloaded from history, where
// streaming already finished before the box existed.
func NewCompletedBox(text string, internalOnly, finalized bool) Box {
	b := Box{
		text:             text,
		streamComplete:   true,
		contentFinalized: finalized,
		internalOnly:     internalOnly,
		hasContent:       strings.TrimSpace(text) != "",
	}
	b.state = b.completedState()
	return b
}

// completedState decides collapsed vs hidden for a finished stream.
func (b Box) completedState() DisplayState {
	if b.hasContent || b.internalOnly || b.contentFinalized {
		return StateCollapsed
	}
	return StateHidden
}

// Apply is the reducer. It returns the box state after the event; unknown
// event values leave the box unchanged.
func (b Box) Apply(ev Event) Box {
	switch e := ev.(type) {
	case TextAppended:
		b.text += e.Delta
		if strings.TrimSpace(e.Delta) != "" {
			b.hasContent = true
		}

	case StreamCompleted:
		b.streamComplete = true
		b.elapsed = e.Elapsed
		b.elapsedKnown = e.ElapsedKnown
		b.state = b.completedState()

	case ContentFinalized:
		b.contentFinalized = true
		// Finalized content must stay reachable even when the live stream
		// produced nothing visible.
		if b.state == StateHidden {
			b.state = StateCollapsed
		}

	case UserToggle:
		if b.state == StateHidden {
			break
		}
		if !b.streamComplete && !b.hasContent {
			// Still streaming with nothing to show. The busy affordance
			// replaces the toggle control.
			break
		}
		if b.state == StateExpanded {
			b.state = StateCollapsed
		} else {
			b.state = StateExpanded
		}
	}
	return b
}

// Text returns the accumulated reasoning text.
func (b Box) Text() string { return b.text }

// State returns the current display state.
func (b Box) State() DisplayState { return b.state }

// HasContent reports the one-way content latch. Once true it never resets
// for the lifetime of the turn.
func (b Box) HasContent() bool { return b.hasContent }

// StreamComplete reports whether the stream has finished.
func (b Box) StreamComplete() bool { return b.streamComplete }

// InternalOnly reports whether the turn belongs to a model with hidden
// internal reasoning.
func (b Box) InternalOnly() bool { return b.internalOnly }

// Visible reports whether the box renders at all. A turn disappears only
// when it finished with no text, no internal-reasoning flag, and no
// finalized-content flag.
func (b Box) Visible() bool {
	return b.hasContent || !b.streamComplete || b.internalOnly || b.contentFinalized
}

// Busy reports whether the box should show a busy affordance instead of a
// toggle control: still streaming and nothing to show yet.
func (b Box) Busy() bool {
	return !b.streamComplete && !b.hasContent
}

// Mode selects the body content for an expanded box.
func (b Box) Mode() RenderMode {
	switch {
	case !b.Visible():
		return RenderNothing
	case b.internalOnly && !b.streamComplete:
		return RenderShimmer
	case strings.TrimSpace(b.text) != "":
		return RenderMarkdown
	case !b.streamComplete:
		return RenderWaiting
	default:
		return RenderEmptyNotice
	}
}

// HeaderLabel returns the header text for the box.
func (b Box) HeaderLabel() string {
	switch {
	case b.streamComplete && b.elapsedKnown:
		return fmt.Sprintf("Thought for %ds", int(b.elapsed.Seconds()))
	case b.streamComplete:
		return "Thinking Process"
	case b.internalOnly:
		return "Internal Reasoning..."
	default:
		return "Thinking..."
	}
}
