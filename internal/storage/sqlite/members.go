package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/internal/storage"
)

// ListMembers retrieves every member in creation order.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return listMembers(ctx, s.db)
}

func listMembers(ctx context.Context, q queryer) ([]*models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, active, created_at FROM members ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.Name, &member.Active, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member := &models.Member{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, active, created_at FROM members WHERE id = ?",
		memberID,
	).Scan(&member.ID, &member.Name, &member.Active, &member.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// CreateMember inserts a new active member.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().UnixMilli()
	}
	member.Active = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM members WHERE name = ?", member.Name).Scan(&exists)
	if err == nil {
		return fmt.Errorf("member %q: %w", member.Name, storage.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check member name: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO members (id, name, active, created_at) VALUES (?, ?, ?, ?)",
		member.ID, member.Name, member.Active, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeactivateMember flags a member inactive without touching past attendance.
func (s *SQLiteStore) DeactivateMember(ctx context.Context, memberID string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE members SET active = 0 WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}

	return nil
}
