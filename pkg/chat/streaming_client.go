package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

// MessageChunk is one increment of a streaming response.
type MessageChunk struct {
	ID        string
	StreamID  string
	Content   string
	Done      bool
	Elapsed   time.Duration // total generation time, set on the final chunk
	Timestamp time.Time
	Error     error
}

// StreamingChatClient extends ChatClient with incremental delivery.
type StreamingChatClient interface {
	ChatClient
	StreamMessage(ctx context.Context, req ChatRequest) (<-chan MessageChunk, error)
}

// StreamingClient streams completions chunk by chunk over langchaingo.
type StreamingClient struct {
	*Client
}

func NewStreamingClient(baseURL, model string) (*StreamingClient, error) {
	client, err := NewClient(baseURL, model)
	if err != nil {
		return nil, err
	}
	return &StreamingClient{Client: client}, nil
}

// StreamMessage starts a completion and returns a channel of chunks. The
// channel is closed after the final chunk; chunks arrive in the order the
// model produced them. Cancel the context to abandon the stream.
func (sc *StreamingClient) StreamMessage(ctx context.Context, req ChatRequest) (<-chan MessageChunk, error) {
	messages := toLangChainMessages(req.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("no sendable messages in request")
	}

	chunks := make(chan MessageChunk, 100)
	streamID := "stream-" + uuid.NewString()

	go func() {
		defer close(chunks)

		var (
			mu         sync.Mutex
			content    strings.Builder
			chunkCount int
		)
		started := time.Now()

		streamingFunc := func(ctx context.Context, chunk []byte) error {
			mu.Lock()
			defer mu.Unlock()

			chunkCount++
			text := string(chunk)
			content.WriteString(text)

			select {
			case chunks <- MessageChunk{
				ID:        fmt.Sprintf("%s-%d", streamID, chunkCount),
				StreamID:  streamID,
				Content:   text,
				Timestamp: time.Now(),
			}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}

		response, err := sc.llm.GenerateContent(ctx, messages, llms.WithStreamingFunc(streamingFunc))
		if err != nil {
			chunks <- MessageChunk{
				ID:        streamID + "-error",
				StreamID:  streamID,
				Done:      true,
				Timestamp: time.Now(),
				Error:     err,
			}
			return
		}

		mu.Lock()
		final := MessageChunk{
			ID:        streamID + "-final",
			StreamID:  streamID,
			Done:      true,
			Elapsed:   time.Since(started),
			Timestamp: time.Now(),
		}
		// Some backends answer without invoking the streaming callback at
		// all. Deliver the whole response as the final chunk's content.
		if content.Len() == 0 && len(response.Choices) > 0 {
			final.Content = response.Choices[0].Content
		}
		mu.Unlock()

		chunks <- final
	}()

	return chunks, nil
}

var _ StreamingChatClient = (*StreamingClient)(nil)
