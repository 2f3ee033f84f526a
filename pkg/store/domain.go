package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist or is not visible to
// the requesting user.
var ErrNotFound = errors.New("not found")

// User owns conversations. Conversations without an owner are shared.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

// Conversation is a chat session. RootMessageID designates the tree root
// once the first message exists; a nil OwnerID marks a shared conversation.
type Conversation struct {
	ID            string
	OwnerID       *string
	Title         string
	RootMessageID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Branch is an alternate path through a conversation's message tree.
// Branches form their own tree via ParentBranchID, scoped to one
// conversation.
type Branch struct {
	ID             string
	ConversationID string
	ParentBranchID *string
	Name           string
	CreatedAt      time.Time
}

// Message is one turn in a conversation. ThinkingContent is written once
// when an assistant turn completes and is immutable afterwards; nil means
// the turn never recorded a trace.
type Message struct {
	ID              string
	ConversationID  string
	BranchID        *string
	ParentMessageID *string
	Role            string
	Content         string
	ThinkingContent *string
	Metadata        map[string]any
	CreatedAt       time.Time
}

// Bug is a user-filed report.
type Bug struct {
	ID          string
	ReporterID  *string
	Title       string
	Description string
	Severity    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Message roles accepted by the schema's check constraint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Bug severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Bug statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)
