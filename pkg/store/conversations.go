package store

import (
	"context"
	"fmt"
	"time"
)

// CreateConversation inserts a new conversation. A nil OwnerID creates a
// shared conversation visible to every user.
func (s *Store) CreateConversation(ctx context.Context, conv *Conversation) error {
	query := `
		INSERT INTO conversations (id, owner_id, title, root_message_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.conn(ctx).Exec(ctx, query,
		conv.ID, conv.OwnerID, conv.Title, conv.RootMessageID,
		conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID without access scoping.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, owner_id, title, root_message_id, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	conv := &Conversation{}
	err := s.conn(ctx).QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.OwnerID, &conv.Title, &conv.RootMessageID,
		&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound("get conversation", err)
	}
	return conv, nil
}

// GetConversationForUser retrieves a conversation the user may access:
// their own, or an ownerless shared one.
func (s *Store) GetConversationForUser(ctx context.Context, id, userID string) (*Conversation, error) {
	query := `
		SELECT id, owner_id, title, root_message_id, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)`

	conv := &Conversation{}
	err := s.conn(ctx).QueryRow(ctx, query, id, userID).Scan(
		&conv.ID, &conv.OwnerID, &conv.Title, &conv.RootMessageID,
		&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound("get conversation for user", err)
	}
	return conv, nil
}

// ListConversationsForUser returns the conversations a user may access,
// newest first.
func (s *Store) ListConversationsForUser(ctx context.Context, userID string, limit, offset int) ([]*Conversation, error) {
	query := `
		SELECT id, owner_id, title, root_message_id, created_at, updated_at
		FROM conversations
		WHERE owner_id = $1 OR owner_id IS NULL
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.conn(ctx).Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []*Conversation
	for rows.Next() {
		conv := &Conversation{}
		if err := rows.Scan(
			&conv.ID, &conv.OwnerID, &conv.Title, &conv.RootMessageID,
			&conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// UpdateConversationTitle renames a conversation the user may access.
func (s *Store) UpdateConversationTitle(ctx context.Context, id, userID, title string) error {
	query := `
		UPDATE conversations
		SET title = $3, updated_at = $4
		WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)`

	result, err := s.conn(ctx).Exec(ctx, query, id, userID, title, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update conversation title: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetConversationRoot records the root message of the conversation tree.
func (s *Store) SetConversationRoot(ctx context.Context, id, messageID string) error {
	query := `
		UPDATE conversations
		SET root_message_id = $2, updated_at = $3
		WHERE id = $1`

	result, err := s.conn(ctx).Exec(ctx, query, id, messageID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set conversation root: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation the user may access. The
// schema cascades the delete to its branches and messages.
func (s *Store) DeleteConversation(ctx context.Context, id, userID string) error {
	query := `DELETE FROM conversations WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)`

	result, err := s.conn(ctx).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
