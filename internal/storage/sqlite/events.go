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

// ListEvents retrieves every event with attendees, newest first.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return listEvents(ctx, s.db)
}

func listEvents(ctx context.Context, q queryer) ([]*models.Event, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, date, location, description, points, created_at, ip_address
		 FROM events ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	byID := make(map[string]*models.Event)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
		byID[event.ID] = event
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	if len(events) == 0 {
		return events, nil
	}

	// One query for all attendance rows, grouped in memory
	attendeeRows, err := q.QueryContext(ctx,
		"SELECT event_id, member_id FROM event_attendees ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	defer attendeeRows.Close()

	for attendeeRows.Next() {
		var eventID, memberID string
		if err := attendeeRows.Scan(&eventID, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		if event, ok := byID[eventID]; ok {
			event.Attendees = append(event.Attendees, memberID)
		}
	}
	if err := attendeeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendees: %w", err)
	}

	return events, nil
}

// GetEvent retrieves an event by ID, including its attendees.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, location, description, points, created_at, ip_address
		 FROM events WHERE id = ?`,
		eventID,
	)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id FROM event_attendees WHERE event_id = ? ORDER BY rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		event.Attendees = append(event.Attendees, memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendees: %w", err)
	}

	return event, nil
}

// CreateEvent persists a new event and its attendees in one transaction.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().UnixMilli()
	}
	event.Attendees = storage.UniqueAttendees(event.Attendees)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Check attendees before writing anything
	for _, memberID := range event.Attendees {
		var active bool
		err := tx.QueryRowContext(ctx, "SELECT active FROM members WHERE id = ?", memberID).Scan(&active)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("attendee %s: %w", memberID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check attendee: %w", err)
		}
		if !active {
			return fmt.Errorf("attendee %s: %w", memberID, storage.ErrInactiveMember)
		}
	}

	var ip any
	if event.IPAddress != "" {
		ip = event.IPAddress
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, date, location, description, points, created_at, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Date, event.Location, event.Description, event.Points, event.CreatedAt, ip,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, memberID := range event.Attendees {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO event_attendees (event_id, member_id) VALUES (?, ?)",
			event.ID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attendee: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteEvent removes an event; attendance rows cascade.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Attendance rows are removed explicitly as well, in case the
	// connection was opened without foreign key enforcement.
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_attendees WHERE event_id = ?", eventID); err != nil {
		return fmt.Errorf("failed to delete attendees: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var ip sql.NullString
	err := row.Scan(&event.ID, &event.Date, &event.Location, &event.Description,
		&event.Points, &event.CreatedAt, &ip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	if ip.Valid {
		event.IPAddress = ip.String
	}
	return event, nil
}
