package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ChatRequest carries the conversation state for one completion call.
type ChatRequest struct {
	Model    string
	Messages []Message
}

// ChatClient is the non-streaming completion interface.
type ChatClient interface {
	SendMessage(ctx context.Context, req ChatRequest) (Message, error)
}

// Client talks to an Ollama-compatible backend through langchaingo.
type Client struct {
	llm     llms.Model
	baseURL string
	model   string
}

func NewClient(baseURL, model string) (*Client, error) {
	return NewClientWithTimeout(baseURL, model, 60*time.Second)
}

func NewClientWithTimeout(baseURL, model string, timeout time.Duration) (*Client, error) {
	var opts []ollama.Option
	if baseURL != "" {
		opts = append(opts, ollama.WithServerURL(baseURL))
	}
	if model != "" {
		opts = append(opts, ollama.WithModel(model))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	_ = timeout // request deadlines come from the caller's context

	return &Client{
		llm:     llm,
		baseURL: baseURL,
		model:   model,
	}, nil
}

// SendMessage performs a blocking completion call.
func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (Message, error) {
	response, err := c.llm.GenerateContent(ctx, toLangChainMessages(req.Messages))
	if err != nil {
		return Message{}, fmt.Errorf("completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return Message{}, fmt.Errorf("completion returned no choices")
	}

	return NewAssistantMessage(response.Choices[0].Content), nil
}

// toLangChainMessages converts conversation roles to langchaingo types.
// Error-role messages are client-local and never sent to the model.
func toLangChainMessages(messages []Message) []llms.MessageContent {
	converted := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var messageType llms.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			messageType = llms.ChatMessageTypeSystem
		case RoleAssistant:
			messageType = llms.ChatMessageTypeAI
		case RoleUser:
			messageType = llms.ChatMessageTypeHuman
		default:
			continue
		}
		converted = append(converted, llms.TextParts(messageType, msg.Content))
	}
	return converted
}

var _ ChatClient = (*Client)(nil)
