package store

import (
	"context"
	"fmt"
)

// AppendMessage inserts one turn. thinking_content is written here or never:
// no update path exists for it, matching the write-once contract.
func (s *Store) AppendMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, branch_id, parent_message_id,
		                      role, content, thinking_content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	metadata := msg.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	_, err := s.conn(ctx).Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.BranchID, msg.ParentMessageID,
		msg.Role, msg.Content, msg.ThinkingContent, metadata, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// GetMessage retrieves one message.
func (s *Store) GetMessage(ctx context.Context, id string) (*Message, error) {
	query := `
		SELECT id, conversation_id, branch_id, parent_message_id,
		       role, content, thinking_content, metadata, created_at
		FROM messages
		WHERE id = $1`

	msg := &Message{}
	err := s.conn(ctx).QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.ConversationID, &msg.BranchID, &msg.ParentMessageID,
		&msg.Role, &msg.Content, &msg.ThinkingContent, &msg.Metadata, &msg.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get message", err)
	}
	return msg, nil
}

// ListMessages returns a conversation's trunk messages in order: rows with
// no branch, oldest first.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, branch_id, parent_message_id,
		       role, content, thinking_content, metadata, created_at
		FROM messages
		WHERE conversation_id = $1 AND branch_id IS NULL
		ORDER BY created_at ASC`

	return s.queryMessages(ctx, "list messages", query, conversationID)
}

// ListBranchMessages returns a branch's messages, oldest first.
func (s *Store) ListBranchMessages(ctx context.Context, branchID string) ([]*Message, error) {
	query := `
		SELECT id, conversation_id, branch_id, parent_message_id,
		       role, content, thinking_content, metadata, created_at
		FROM messages
		WHERE branch_id = $1
		ORDER BY created_at ASC`

	return s.queryMessages(ctx, "list branch messages", query, branchID)
}

func (s *Store) queryMessages(ctx context.Context, operation, query string, args ...any) ([]*Message, error) {
	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.BranchID, &msg.ParentMessageID,
			&msg.Role, &msg.Content, &msg.ThinkingContent, &msg.Metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
