// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/mealpoints/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyExists is returned when a member name is already taken.
	ErrAlreadyExists = errors.New("storage: already exists")
	// ErrInactiveMember is returned when a deleted member is added to a new event.
	ErrInactiveMember = errors.New("storage: member is inactive")
)

// Snapshot is a consistent view of the roster and the event history,
// read at a single point in time.
type Snapshot struct {
	Members []*models.Member
	Events  []*models.Event
}

// Store defines the interface for member and event storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Store interface {
	// ListMembers returns every member, active or not, in creation order.
	ListMembers(ctx context.Context) ([]*models.Member, error)

	// GetMember retrieves a member by ID.
	// Returns ErrNotFound if the member does not exist.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// CreateMember persists a new active member.
	// The member.ID and member.CreatedAt fields will be populated by the store.
	// Returns ErrAlreadyExists if the name is taken.
	CreateMember(ctx context.Context, member *models.Member) error

	// DeactivateMember marks a member inactive. The record is kept so past
	// events still resolve. Returns ErrNotFound if the member does not exist.
	DeactivateMember(ctx context.Context, memberID string) error

	// ListEvents returns every event with its attendees, newest first.
	ListEvents(ctx context.Context) ([]*models.Event, error)

	// GetEvent retrieves an event and its attendees by ID.
	// Returns ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// CreateEvent persists an event together with its attendees, atomically.
	// Duplicate attendee IDs are collapsed. Every attendee must be an
	// existing (ErrNotFound) active (ErrInactiveMember) member.
	CreateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent removes an event together with its attendees.
	// Returns ErrNotFound if the event does not exist.
	DeleteEvent(ctx context.Context, eventID string) error

	// Snapshot returns members and events read consistently.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}

// UniqueAttendees returns ids with duplicates removed, keeping first occurrence order.
func UniqueAttendees(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
