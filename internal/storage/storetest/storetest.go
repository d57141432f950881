// Package storetest holds behavior checks shared by every storage.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/internal/storage"
)

// Run exercises store against the storage.Store contract. newStore must
// return an empty store; it is called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("CreateMember generates ID and timestamp", func(t *testing.T) {
		store := newStore(t)
		member := &models.Member{Name: "Alice"}
		if err := store.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		if member.ID == "" {
			t.Error("Expected member ID to be generated")
		}
		if member.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if !member.Active {
			t.Error("Expected new member to be active")
		}
	})

	t.Run("CreateMember rejects duplicate names", func(t *testing.T) {
		store := newStore(t)
		mustCreateMember(t, store, "Alice")

		err := store.CreateMember(ctx, &models.Member{Name: "Alice"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("ListMembers keeps creation order", func(t *testing.T) {
		store := newStore(t)
		names := []string{"Charlie", "Alice", "Bob"}
		for i, name := range names {
			if err := store.CreateMember(ctx, &models.Member{Name: name, CreatedAt: int64(100 + i)}); err != nil {
				t.Fatalf("CreateMember failed: %v", err)
			}
		}

		members, err := store.ListMembers(ctx)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != len(names) {
			t.Fatalf("Expected %d members, got %d", len(names), len(members))
		}
		for i, name := range names {
			if members[i].Name != name {
				t.Errorf("members[%d] = %s, want %s", i, members[i].Name, name)
			}
		}
	})

	t.Run("DeactivateMember keeps the record", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		bob := mustCreateMember(t, store, "Bob")
		event := &models.Event{Date: "2024-03-01", Location: "Noodle Bar", Points: 1, Attendees: []string{alice.ID, bob.ID}}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		if err := store.DeactivateMember(ctx, alice.ID); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}
		// Second call is a no-op
		if err := store.DeactivateMember(ctx, alice.ID); err != nil {
			t.Fatalf("DeactivateMember twice failed: %v", err)
		}

		got, err := store.GetMember(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if got.Active {
			t.Error("Expected member to be inactive")
		}

		retrieved, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if len(retrieved.Attendees) != 2 {
			t.Errorf("Expected past attendance to survive, got %v", retrieved.Attendees)
		}
	})

	t.Run("DeactivateMember returns error for nonexistent member", func(t *testing.T) {
		store := newStore(t)
		if err := store.DeactivateMember(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetMember returns error for nonexistent member", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.GetMember(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateEvent round trip", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		bob := mustCreateMember(t, store, "Bob")

		original := &models.Event{
			Date:        "2024-05-01",
			Location:    "Hotpot Place",
			Description: "Birthday dinner",
			Points:      3,
			Attendees:   []string{bob.ID, alice.ID, bob.ID},
			IPAddress:   "203.0.113.7",
		}
		if err := store.CreateEvent(ctx, original); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
		if original.ID == "" || original.CreatedAt == 0 {
			t.Fatal("Expected ID and CreatedAt to be generated")
		}

		retrieved, err := store.GetEvent(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if retrieved.Date != original.Date || retrieved.Location != original.Location ||
			retrieved.Description != original.Description || retrieved.Points != original.Points {
			t.Errorf("Event mismatch: got %+v, want %+v", retrieved, original)
		}
		if retrieved.IPAddress != "203.0.113.7" {
			t.Errorf("IPAddress = %q, want 203.0.113.7", retrieved.IPAddress)
		}
		if len(retrieved.Attendees) != 2 || retrieved.Attendees[0] != bob.ID || retrieved.Attendees[1] != alice.ID {
			t.Errorf("Attendees = %v, want [%s %s]", retrieved.Attendees, bob.ID, alice.ID)
		}
	})

	t.Run("CreateEvent rejects unknown attendee atomically", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")

		err := store.CreateEvent(ctx, &models.Event{
			Date: "2024-05-01", Location: "Cafe", Points: 1,
			Attendees: []string{alice.ID, "ghost"},
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}

		events, err := store.ListEvents(ctx)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("Expected no events after failed create, got %d", len(events))
		}
	})

	t.Run("CreateEvent rejects inactive attendee", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		if err := store.DeactivateMember(ctx, alice.ID); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}

		err := store.CreateEvent(ctx, &models.Event{
			Date: "2024-05-01", Location: "Cafe", Points: 1, Attendees: []string{alice.ID},
		})
		if !errors.Is(err, storage.ErrInactiveMember) {
			t.Errorf("Expected ErrInactiveMember, got %v", err)
		}
	})

	t.Run("ListEvents newest first", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		for i, date := range []string{"2024-01-01", "2023-06-01", "2024-02-01"} {
			event := &models.Event{
				Date: date, Location: "Diner", Points: 1,
				Attendees: []string{alice.ID}, CreatedAt: int64(1000 + i),
			}
			if err := store.CreateEvent(ctx, event); err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
		}

		events, err := store.ListEvents(ctx)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		want := []string{"2024-02-01", "2023-06-01", "2024-01-01"}
		if len(events) != len(want) {
			t.Fatalf("Expected %d events, got %d", len(want), len(events))
		}
		for i, date := range want {
			if events[i].Date != date {
				t.Errorf("events[%d].Date = %s, want %s", i, events[i].Date, date)
			}
			if len(events[i].Attendees) != 1 {
				t.Errorf("events[%d] attendees = %v", i, events[i].Attendees)
			}
		}
	})

	t.Run("DeleteEvent removes event", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		event := &models.Event{Date: "2024-05-01", Location: "Cafe", Points: 1, Attendees: []string{alice.ID}}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		if err := store.DeleteEvent(ctx, event.ID); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if _, err := store.GetEvent(ctx, event.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteEvent(ctx, event.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
		}
	})

	t.Run("Snapshot returns both collections", func(t *testing.T) {
		store := newStore(t)
		alice := mustCreateMember(t, store, "Alice")
		mustCreateMember(t, store, "Bob")
		event := &models.Event{Date: "2024-05-01", Location: "Cafe", Points: 1, Attendees: []string{alice.ID}}
		if err := store.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}

		snapshot, err := store.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(snapshot.Members) != 2 {
			t.Errorf("Expected 2 members, got %d", len(snapshot.Members))
		}
		if len(snapshot.Events) != 1 || len(snapshot.Events[0].Attendees) != 1 {
			t.Errorf("Expected 1 event with 1 attendee, got %+v", snapshot.Events)
		}
	})
}

func mustCreateMember(t *testing.T, store storage.Store, name string) *models.Member {
	t.Helper()
	member := &models.Member{Name: name}
	if err := store.CreateMember(context.Background(), member); err != nil {
		t.Fatalf("CreateMember(%s) failed: %v", name, err)
	}
	return member
}
