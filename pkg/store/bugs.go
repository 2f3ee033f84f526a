package store

import (
	"context"
	"fmt"
	"time"
)

// CreateBug files a report. The schema rejects severities and statuses
// outside the accepted enumerations.
func (s *Store) CreateBug(ctx context.Context, bug *Bug) error {
	query := `
		INSERT INTO bugs (id, reporter_id, title, description, severity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.conn(ctx).Exec(ctx, query,
		bug.ID, bug.ReporterID, bug.Title, bug.Description,
		bug.Severity, bug.Status, bug.CreatedAt, bug.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create bug: %w", err)
	}
	return nil
}

// UpdateBugStatus moves a report through its lifecycle.
func (s *Store) UpdateBugStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bugs SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := s.conn(ctx).Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update bug status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBugs returns reports filtered by status; an empty status lists all,
// newest first.
func (s *Store) ListBugs(ctx context.Context, status string) ([]*Bug, error) {
	query := `
		SELECT id, reporter_id, title, description, severity, status, created_at, updated_at
		FROM bugs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC`

	rows, err := s.conn(ctx).Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list bugs: %w", err)
	}
	defer rows.Close()

	var bugs []*Bug
	for rows.Next() {
		bug := &Bug{}
		if err := rows.Scan(
			&bug.ID, &bug.ReporterID, &bug.Title, &bug.Description,
			&bug.Severity, &bug.Status, &bug.CreatedAt, &bug.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bug: %w", err)
		}
		bugs = append(bugs, bug)
	}
	return bugs, rows.Err()
}
