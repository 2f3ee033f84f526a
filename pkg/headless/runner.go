// Package headless runs a single prompt without the TUI: the response
// streams to stdout and the thinking box is printed as a bordered block
// once the turn completes.
package headless

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/killallgit/mull/pkg/chat"
	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/logger"
	"github.com/killallgit/mull/pkg/store"
	"github.com/killallgit/mull/pkg/thinking"
	"github.com/killallgit/mull/pkg/tui"
)

const (
	outputWidth   = 80
	titleMaxRunes = 64
)

// StreamSender is the slice of the chat client the runner needs.
type StreamSender interface {
	StreamMessage(ctx context.Context, req chat.ChatRequest) (<-chan chat.MessageChunk, error)
}

// Runner executes one prompt end to end.
type Runner struct {
	client   StreamSender
	store    *store.Store
	out      io.Writer
	model    string
	system   string
	showBox  bool
	internal bool
}

// NewRunner builds a runner from the loaded configuration. Persistence is
// enabled only when a database URL is configured.
func NewRunner(ctx context.Context) (*Runner, error) {
	cfg := config.Get()

	client, err := chat.NewStreamingClient(cfg.Provider.URL, cfg.Provider.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	var st *store.Store
	if cfg.Database.URL != "" {
		st, err = store.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect store: %w", err)
		}
	}

	return &Runner{
		client:   client,
		store:    st,
		out:      os.Stdout,
		model:    cfg.Provider.Model,
		system:   cfg.Provider.SystemPrompt,
		showBox:  cfg.ShowThinking,
		internal: chat.IsInternalReasoningModel(cfg.Provider.Model, cfg.InternalReasoningModels),
	}, nil
}

// Run sends the prompt, streams the response to the output writer, and
// prints the completed thinking box.
func (r *Runner) Run(ctx context.Context, prompt string) error {
	log := logger.WithComponent("headless")

	conv := chat.NewConversationWithSystem(r.model, r.system)
	conv = chat.AddMessage(conv, chat.NewUserMessage(prompt))

	chunks, err := r.client.StreamMessage(ctx, chat.ChatRequest{
		Model:    r.model,
		Messages: conv.Messages,
	})
	if err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}

	splitter := chat.NewStreamSplitter()
	box := thinking.NewBox(r.internal)

	for chunk := range chunks {
		if chunk.Error != nil {
			return fmt.Errorf("stream failed: %w", chunk.Error)
		}

		update := splitter.Feed(chunk.Content)
		if update.ThinkingDelta != "" {
			box = box.Apply(thinking.TextAppended{Delta: update.ThinkingDelta})
		}
		if update.ResponseDelta != "" {
			fmt.Fprint(r.out, update.ResponseDelta)
		}
	}

	result := splitter.Finish()
	if result.ResponseTail != "" {
		fmt.Fprint(r.out, result.ResponseTail)
	}
	if result.ThinkingTail != "" {
		box = box.Apply(thinking.TextAppended{Delta: result.ThinkingTail})
	}
	box = box.Apply(thinking.StreamCompleted{
		Elapsed:      result.Elapsed,
		ElapsedKnown: result.ElapsedKnown,
	})
	fmt.Fprintln(r.out)

	log.Debug("stream finished",
		"thinking_chars", len(result.Thinking),
		"response_chars", len(result.Response),
		"thinking_elapsed", result.Elapsed)

	if r.store != nil {
		if err := r.persist(ctx, prompt, result); err != nil {
			return err
		}
		box = box.Apply(thinking.ContentFinalized{})
	}

	if r.showBox {
		// Expand so the trace itself is printed, not just the header.
		box = box.Apply(thinking.UserToggle{})
		if rendered := tui.RenderBoxText(box, outputWidth, tui.NewSyntaxHighlighter()); rendered != "" {
			fmt.Fprintln(r.out, rendered)
		}
	}

	return nil
}

// persist writes the exchange as an ownerless shared conversation.
func (r *Runner) persist(ctx context.Context, prompt string, result chat.StreamResult) error {
	now := time.Now().UTC()

	conv := &store.Conversation{
		ID:        store.NewConversationID(),
		Title:     titleFromPrompt(prompt),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return r.store.WithTx(ctx, func(ctx context.Context) error {
		if err := r.store.CreateConversation(ctx, conv); err != nil {
			return err
		}

		userMsg := &store.Message{
			ID:             store.NewMessageID(),
			ConversationID: conv.ID,
			Role:           store.RoleUser,
			Content:        prompt,
			CreatedAt:      now,
		}
		if err := r.store.AppendMessage(ctx, userMsg); err != nil {
			return err
		}
		if err := r.store.SetConversationRoot(ctx, conv.ID, userMsg.ID); err != nil {
			return err
		}

		assistantMsg := &store.Message{
			ID:              store.NewMessageID(),
			ConversationID:  conv.ID,
			ParentMessageID: &userMsg.ID,
			Role:            store.RoleAssistant,
			Content:         result.Response,
			CreatedAt:       time.Now().UTC(),
		}
		if result.Thinking != "" {
			assistantMsg.ThinkingContent = &result.Thinking
		}
		return r.store.AppendMessage(ctx, assistantMsg)
	})
}

// titleFromPrompt derives a conversation title from the first prompt.
func titleFromPrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	if line, _, found := strings.Cut(title, "\n"); found {
		title = line
	}
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes]) + "…"
	}
	return title
}

// Cleanup releases held resources.
func (r *Runner) Cleanup() error {
	if r.store != nil {
		r.store.Close()
	}
	return nil
}
