// Package memory provides an in-process implementation of storage.Store,
// used when no database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps members and events in maps guarded by a single RWMutex.
// Values are copied on the way in and out so callers never share memory
// with the store.
type Store struct {
	mu          sync.RWMutex
	members     map[string]*models.Member
	memberOrder []string
	events      map[string]*models.Event
	eventOrder  []string
	now         func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		members: make(map[string]*models.Member),
		events:  make(map[string]*models.Event),
		now:     time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ListMembers returns members in creation order.
func (s *Store) ListMembers(ctx context.Context) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listMembersLocked(), nil
}

func (s *Store) listMembersLocked() []*models.Member {
	members := make([]*models.Member, 0, len(s.memberOrder))
	for _, id := range s.memberOrder {
		members = append(members, copyMember(s.members[id]))
	}
	return members
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	return copyMember(member), nil
}

// CreateMember adds a new active member.
func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.members {
		if existing.Name == member.Name {
			return fmt.Errorf("member %q: %w", member.Name, storage.ErrAlreadyExists)
		}
	}

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = s.now().UnixMilli()
	}
	member.Active = true

	s.members[member.ID] = copyMember(member)
	s.memberOrder = append(s.memberOrder, member.ID)
	return nil
}

// DeactivateMember flags a member inactive.
func (s *Store) DeactivateMember(ctx context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	member.Active = false
	return nil
}

// ListEvents returns events newest first; later insertions win ties.
func (s *Store) ListEvents(ctx context.Context) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEventsLocked(), nil
}

func (s *Store) listEventsLocked() []*models.Event {
	events := make([]*models.Event, 0, len(s.eventOrder))
	for i := len(s.eventOrder) - 1; i >= 0; i-- {
		events = append(events, copyEvent(s.events[s.eventOrder[i]]))
	}
	slices.SortStableFunc(events, func(a, b *models.Event) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	})
	return events
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	return copyEvent(event), nil
}

// CreateEvent stores an event and its attendees.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attendees := storage.UniqueAttendees(event.Attendees)
	for _, memberID := range attendees {
		member, ok := s.members[memberID]
		if !ok {
			return fmt.Errorf("attendee %s: %w", memberID, storage.ErrNotFound)
		}
		if !member.Active {
			return fmt.Errorf("attendee %s: %w", memberID, storage.ErrInactiveMember)
		}
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = s.now().UnixMilli()
	}
	event.Attendees = attendees

	s.events[event.ID] = copyEvent(event)
	s.eventOrder = append(s.eventOrder, event.ID)
	return nil
}

// DeleteEvent removes an event and its attendees.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return fmt.Errorf("event %s: %w", eventID, storage.ErrNotFound)
	}
	delete(s.events, eventID)
	s.eventOrder = slices.DeleteFunc(s.eventOrder, func(id string) bool { return id == eventID })
	return nil
}

// Snapshot copies members and events under one read lock.
func (s *Store) Snapshot(ctx context.Context) (*storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &storage.Snapshot{
		Members: s.listMembersLocked(),
		Events:  s.listEventsLocked(),
	}, nil
}

func copyMember(m *models.Member) *models.Member {
	c := *m
	return &c
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	c.Attendees = slices.Clone(e.Attendees)
	return &c
}
