package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"

	"github.com/killallgit/mull/pkg/chat"
	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/logger"
	"github.com/killallgit/mull/pkg/store"
	"github.com/killallgit/mull/pkg/thinking"
)

const shimmerInterval = 120 * time.Millisecond

// EventChunk carries one streamed message chunk into the tcell event loop.
type EventChunk struct {
	tcell.EventTime
	Chunk chat.MessageChunk
}

// EventTick drives the shimmer animation while a stream is active.
type EventTick struct {
	tcell.EventTime
}

// StreamSender is the slice of the chat client the app needs.
type StreamSender interface {
	StreamMessage(ctx context.Context, req chat.ChatRequest) (<-chan chat.MessageChunk, error)
}

// App owns the terminal screen and the chat session state. All state
// mutation happens on the event loop goroutine; the streaming goroutine
// only posts events.
type App struct {
	screen tcell.Screen
	client StreamSender
	store  *store.Store

	conv         chat.Conversation
	transcript   Transcript
	splitter     *chat.StreamSplitter
	input        []rune
	streaming    bool
	streamDone   chan struct{}
	internal     bool
	model        string
	showThinking bool

	convID string

	width  int
	height int
}

// StartApp builds the app from configuration and blocks until the user
// quits.
func StartApp(ctx context.Context) error {
	cfg := config.Get()

	client, err := chat.NewStreamingClient(cfg.Provider.URL, cfg.Provider.Model)
	if err != nil {
		return fmt.Errorf("failed to create chat client: %w", err)
	}

	var st *store.Store
	if cfg.Database.URL != "" {
		st, err = store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect store: %w", err)
		}
		defer st.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	app := NewApp(screen, client, st, cfg)

	if resumeID := viper.GetString("resume"); resumeID != "" {
		if st == nil {
			return fmt.Errorf("cannot resume %s: no database configured", resumeID)
		}
		if err := app.Resume(ctx, resumeID); err != nil {
			return fmt.Errorf("failed to resume conversation: %w", err)
		}
	}

	return app.Run(ctx)
}

// Resume reloads a persisted conversation into the session: past turns are
// replayed into the transcript with their thinking boxes already collapsed,
// and new turns append to the same conversation row.
func (a *App) Resume(ctx context.Context, conversationID string) error {
	if _, err := a.store.GetConversation(ctx, conversationID); err != nil {
		return err
	}

	messages, err := a.store.ListMessages(ctx, conversationID)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		switch msg.Role {
		case store.RoleUser:
			a.conv = chat.AddMessage(a.conv, chat.NewUserMessage(msg.Content))
			a.transcript = a.transcript.AppendUser(msg.Content)
		case store.RoleAssistant:
			trace := ""
			if msg.ThinkingContent != nil {
				trace = *msg.ThinkingContent
			}
			a.conv = chat.AddMessage(a.conv, chat.NewAssistantMessageWithThinking(msg.Content, trace))
			a.transcript = a.transcript.AppendCompletedAssistant(msg.Content, trace, a.showThinking, a.internal)
		}
	}

	a.convID = conversationID
	return nil
}

// NewApp wires an app over an initialized screen.
func NewApp(screen tcell.Screen, client StreamSender, st *store.Store, cfg *config.Config) *App {
	width, height := screen.Size()

	conv := chat.NewConversation(cfg.Provider.Model)
	if cfg.Provider.SystemPrompt != "" {
		conv = chat.NewConversationWithSystem(cfg.Provider.Model, cfg.Provider.SystemPrompt)
	}

	return &App{
		screen:       screen,
		client:       client,
		store:        st,
		conv:         conv,
		transcript:   NewTranscript(contentWidth(width)),
		model:        cfg.Provider.Model,
		internal:     chat.IsInternalReasoningModel(cfg.Provider.Model, cfg.InternalReasoningModels),
		showThinking: cfg.ShowThinking,
		width:        width,
		height:       height,
	}
}

// Run is the event loop. It returns when the user quits or the context is
// canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	a.draw()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			return ctx.Err()

		case *tcell.EventResize:
			a.width, a.height = ev.Size()
			a.transcript = a.transcript.WithWidth(contentWidth(a.width))
			a.screen.Sync()

		case *tcell.EventKey:
			if a.handleKey(ctx, ev) {
				return nil
			}

		case *EventChunk:
			a.handleChunk(ctx, ev.Chunk)

		case *EventTick:
			if a.streaming {
				a.transcript = a.transcript.Tick()
			}
		}

		a.draw()
	}
}

// handleKey processes one key event. Returns true to quit.
func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true

	case tcell.KeyCtrlT:
		a.transcript = a.transcript.ToggleLastThinking()

	case tcell.KeyEnter:
		a.submit(ctx)

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}

	case tcell.KeyRune:
		a.input = append(a.input, ev.Rune())
	}

	return false
}

// submit sends the current input line as a user message and starts the
// response stream.
func (a *App) submit(ctx context.Context) {
	prompt := string(a.input)
	if prompt == "" || a.streaming {
		return
	}
	a.input = nil

	userMsg := chat.NewUserMessage(prompt)
	a.conv = chat.AddMessage(a.conv, userMsg)
	a.transcript = a.transcript.AppendUser(prompt)

	chunks, err := a.client.StreamMessage(ctx, chat.ChatRequest{
		Model:    a.model,
		Messages: a.conv.Messages,
	})
	if err != nil {
		a.transcript = a.transcript.AppendError(err.Error())
		return
	}

	a.streaming = true
	a.streamDone = make(chan struct{})
	a.splitter = chat.NewStreamSplitter()
	a.transcript = a.transcript.BeginAssistant(a.showThinking, a.internal)

	go a.pump(chunks)
	go a.tick(a.streamDone)
}

// pump forwards stream chunks into the event loop.
func (a *App) pump(chunks <-chan chat.MessageChunk) {
	for chunk := range chunks {
		ev := &EventChunk{Chunk: chunk}
		ev.SetEventNow()
		a.screen.PostEvent(ev)
	}
}

// tick posts shimmer frames until the stream finishes.
func (a *App) tick(done <-chan struct{}) {
	ticker := time.NewTicker(shimmerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ev := &EventTick{}
			ev.SetEventNow()
			a.screen.PostEvent(ev)
		}
	}
}

// handleChunk routes one streamed chunk through the splitter and into the
// transcript.
func (a *App) handleChunk(ctx context.Context, chunk chat.MessageChunk) {
	log := logger.WithComponent("tui")

	if chunk.Error != nil {
		a.finishStream()
		a.transcript = a.transcript.AppendError(chunk.Error.Error())
		return
	}

	if chunk.Content != "" {
		update := a.splitter.Feed(chunk.Content)
		if update.ThinkingDelta != "" && a.showThinking {
			a.transcript = a.transcript.ApplyThinking(thinking.TextAppended{Delta: update.ThinkingDelta})
		}
		if update.ResponseDelta != "" {
			a.transcript = a.transcript.AppendAssistantDelta(update.ResponseDelta)
		}
	}
	if !chunk.Done {
		return
	}

	a.finishStream()
	result := a.splitter.Finish()
	a.transcript = a.transcript.SetAssistantText(result.Response)
	if a.showThinking {
		if result.ThinkingTail != "" {
			a.transcript = a.transcript.ApplyThinking(thinking.TextAppended{Delta: result.ThinkingTail})
		}
		a.transcript = a.transcript.ApplyThinking(thinking.StreamCompleted{
			Elapsed:      result.Elapsed,
			ElapsedKnown: result.ElapsedKnown,
		})
	}

	assistantMsg := chat.NewAssistantMessageWithThinking(result.Response, result.Thinking)
	a.conv = chat.AddMessage(a.conv, assistantMsg)

	if a.store != nil {
		if err := a.persistTurn(ctx, result); err != nil {
			log.Error("failed to persist turn", "error", err)
		} else if a.showThinking {
			a.transcript = a.transcript.ApplyThinking(thinking.ContentFinalized{})
		}
	}
}

func (a *App) finishStream() {
	if a.streaming {
		a.streaming = false
		close(a.streamDone)
	}
}

// persistTurn writes the latest user/assistant pair. The conversation row
// is created lazily on the first completed turn.
func (a *App) persistTurn(ctx context.Context, result chat.StreamResult) error {
	messages := a.conv.Messages
	if len(messages) < 2 {
		return nil
	}
	userMsg := messages[len(messages)-2]
	now := time.Now().UTC()

	return a.store.WithTx(ctx, func(ctx context.Context) error {
		if a.convID == "" {
			conv := &store.Conversation{
				ID:        store.NewConversationID(),
				Title:     userMsg.Content,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := a.store.CreateConversation(ctx, conv); err != nil {
				return err
			}
			a.convID = conv.ID
		}

		row := &store.Message{
			ID:             store.NewMessageID(),
			ConversationID: a.convID,
			Role:           store.RoleUser,
			Content:        userMsg.Content,
			CreatedAt:      now,
		}
		if err := a.store.AppendMessage(ctx, row); err != nil {
			return err
		}

		assistant := &store.Message{
			ID:              store.NewMessageID(),
			ConversationID:  a.convID,
			ParentMessageID: &row.ID,
			Role:            store.RoleAssistant,
			Content:         result.Response,
			CreatedAt:       time.Now().UTC(),
		}
		if result.Thinking != "" {
			assistant.ThinkingContent = &result.Thinking
		}
		return a.store.AppendMessage(ctx, assistant)
	})
}

// draw repaints the whole screen.
func (a *App) draw() {
	a.screen.Clear()

	lines := a.transcript.RenderLines()

	// Bottom-anchor the transcript above the input and status rows.
	avail := a.height - 2
	start := 0
	if len(lines) > avail {
		start = len(lines) - avail
	}
	for row, line := range lines[start:] {
		drawLine(a.screen, 0, row, a.width, line)
	}

	prompt := "> " + string(a.input)
	drawLine(a.screen, 0, a.height-2, a.width, FormattedLine{
		Content: prompt,
		Style:   tcell.StyleDefault,
	})
	a.screen.ShowCursor(len([]rune(prompt)), a.height-2)

	status := a.model
	if a.streaming {
		status = "streaming... " + status
	}
	drawLine(a.screen, 0, a.height-1, a.width, FormattedLine{
		Content: status,
		Style:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	})

	a.screen.Show()
}

func drawLine(screen tcell.Screen, x, y, maxWidth int, line FormattedLine) {
	col := x
	for _, r := range line.Content {
		if col >= maxWidth {
			return
		}
		screen.SetContent(col, y, r, nil, line.Style)
		col++
	}
}

func contentWidth(width int) int {
	if width > 100 {
		return 100
	}
	return width
}
