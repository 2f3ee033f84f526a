package store

import (
	"context"
	"fmt"
)

// CreateBranch inserts a branch. ParentBranchID is nil for branches forked
// directly off the trunk.
func (s *Store) CreateBranch(ctx context.Context, branch *Branch) error {
	query := `
		INSERT INTO branches (id, conversation_id, parent_branch_id, name, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.conn(ctx).Exec(ctx, query,
		branch.ID, branch.ConversationID, branch.ParentBranchID,
		branch.Name, branch.CreatedAt)
	if err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// GetBranch retrieves one branch.
func (s *Store) GetBranch(ctx context.Context, id string) (*Branch, error) {
	query := `
		SELECT id, conversation_id, parent_branch_id, name, created_at
		FROM branches
		WHERE id = $1`

	branch := &Branch{}
	err := s.conn(ctx).QueryRow(ctx, query, id).Scan(
		&branch.ID, &branch.ConversationID, &branch.ParentBranchID,
		&branch.Name, &branch.CreatedAt)
	if err != nil {
		return nil, wrapNotFound("get branch", err)
	}
	return branch, nil
}

// ListBranches returns a conversation's branches, oldest first.
func (s *Store) ListBranches(ctx context.Context, conversationID string) ([]*Branch, error) {
	query := `
		SELECT id, conversation_id, parent_branch_id, name, created_at
		FROM branches
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := s.conn(ctx).Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		branch := &Branch{}
		if err := rows.Scan(
			&branch.ID, &branch.ConversationID, &branch.ParentBranchID,
			&branch.Name, &branch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}
