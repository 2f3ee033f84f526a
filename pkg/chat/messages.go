package chat

import (
	"strings"
	"time"
)

// Message is one entry in a conversation. ThinkingContent carries the model's
// finalized reasoning for assistant turns; it is written once when the turn
// completes and never changes afterwards.
type Message struct {
	Role            string    `json:"role"`
	Content         string    `json:"content"`
	ThinkingContent string    `json:"thinking_content,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
)

func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessageWithThinking builds a completed assistant turn carrying
// its reasoning trace.
func NewAssistantMessageWithThinking(content, thinking string) Message {
	return Message{
		Role:            RoleAssistant,
		Content:         content,
		ThinkingContent: thinking,
		Timestamp:       time.Now(),
	}
}

func NewSystemMessage(content string) Message {
	return Message{
		Role:      RoleSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewErrorMessage(content string) Message {
	return Message{
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

func (m Message) IsError() bool {
	return m.Role == RoleError
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// HasThinking reports whether the turn recorded a non-blank reasoning trace.
func (m Message) HasThinking() bool {
	return strings.TrimSpace(m.ThinkingContent) != ""
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.Timestamp = t
	return m
}
