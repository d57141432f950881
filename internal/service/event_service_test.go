package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/pkg/api"
)

func TestCreateEvent_SuggestedPoints(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	ids := createMembers(t, clients.members, "A", "B", "C", "D", "E", "F")
	attendees := []string{ids["A"], ids["B"], ids["C"], ids["D"], ids["E"], ids["F"]}

	event := createEvent(t, clients.events, "2024-06-01", nil, attendees...)

	if event.Id == "" {
		t.Error("expected event ID to be generated")
	}
	// Six attendees fall in the 6-8 tier
	if event.Points != 3 {
		t.Errorf("expected 3 points, got %d", event.Points)
	}
	if len(event.AttendeeIds) != 6 {
		t.Errorf("expected 6 attendees, got %d", len(event.AttendeeIds))
	}
	if event.Location != "Test Kitchen" {
		t.Errorf("expected location 'Test Kitchen', got %q", event.Location)
	}
	if event.IpAddress != "127.0.0.1" {
		t.Errorf("expected peer address 127.0.0.1, got %q", event.IpAddress)
	}
}

func TestCreateEvent_ManualPoints(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	ids := createMembers(t, clients.members, "Alice", "Bob")

	tests := []struct {
		name   string
		points int32
		want   int32
	}{
		{name: "in range", points: 7, want: 7},
		{name: "zero", points: 0, want: 0},
		{name: "above max clamps", points: 25, want: 20},
		{name: "negative clamps", points: -3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := createEvent(t, clients.events, "2024-06-01", int32Ptr(tt.points), ids["Alice"], ids["Bob"])
			if event.Points != tt.want {
				t.Errorf("expected %d points, got %d", tt.want, event.Points)
			}
		})
	}
}

func TestCreateEvent_DuplicateAttendeesCollapse(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	ids := createMembers(t, clients.members, "Alice", "Bob")

	event := createEvent(t, clients.events, "2024-06-01", nil, ids["Alice"], ids["Alice"], ids["Bob"])

	if len(event.AttendeeIds) != 2 {
		t.Fatalf("expected 2 unique attendees, got %v", event.AttendeeIds)
	}
	if event.AttendeeIds[0] != ids["Alice"] || event.AttendeeIds[1] != ids["Bob"] {
		t.Errorf("expected first-occurrence order, got %v", event.AttendeeIds)
	}
	// Tier is chosen from the unique count
	if event.Points != 1 {
		t.Errorf("expected 1 point, got %d", event.Points)
	}
}

func TestCreateEvent_ForwardedFor(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	ids := createMembers(t, clients.members, "Alice")

	req := connect.NewRequest(&api.CreateEventRequest{
		Date:        "2024-06-01",
		Location:    "Ramen",
		AttendeeIds: []string{ids["Alice"]},
	})
	req.Header().Set("X-Forwarded-For", "::ffff:203.0.113.7, 10.0.0.1")

	resp, err := clients.events.CreateEvent(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if resp.Msg.Event.IpAddress != "203.0.113.7" {
		t.Errorf("expected forwarded address, got %q", resp.Msg.Event.IpAddress)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	ids := createMembers(t, clients.members, "Alice")
	valid := func() *api.CreateEventRequest {
		return &api.CreateEventRequest{
			Date:        "2024-06-01",
			Location:    "Ramen",
			AttendeeIds: []string{ids["Alice"]},
		}
	}

	tests := []struct {
		name   string
		mutate func(*api.CreateEventRequest)
	}{
		{name: "wrong date format", mutate: func(r *api.CreateEventRequest) { r.Date = "2024/06/01" }},
		{name: "impossible date", mutate: func(r *api.CreateEventRequest) { r.Date = "2024-02-30" }},
		{name: "empty date", mutate: func(r *api.CreateEventRequest) { r.Date = "" }},
		{name: "empty location", mutate: func(r *api.CreateEventRequest) { r.Location = "  " }},
		{name: "location too long", mutate: func(r *api.CreateEventRequest) { r.Location = strings.Repeat("x", 201) }},
		{name: "description too long", mutate: func(r *api.CreateEventRequest) { r.Description = strings.Repeat("x", 501) }},
		{name: "no attendees", mutate: func(r *api.CreateEventRequest) { r.AttendeeIds = nil }},
		{name: "blank attendee", mutate: func(r *api.CreateEventRequest) { r.AttendeeIds = []string{" "} }},
		{name: "unknown attendee", mutate: func(r *api.CreateEventRequest) { r.AttendeeIds = []string{"nobody"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := clients.events.CreateEvent(context.Background(), connect.NewRequest(req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	list, err := clients.events.ListEvents(context.Background(), connect.NewRequest(&api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(list.Msg.Events) != 0 {
		t.Errorf("expected no events after rejected requests, got %d", len(list.Msg.Events))
	}
}

func TestCreateEvent_InactiveAttendee(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	ids := createMembers(t, clients.members, "Alice", "Bob")
	if _, err := clients.members.DeleteMember(ctx, connect.NewRequest(&api.DeleteMemberRequest{MemberId: ids["Bob"]})); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	_, err := clients.events.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{
		Date:        "2024-06-01",
		Location:    "Ramen",
		AttendeeIds: []string{ids["Alice"], ids["Bob"]},
	}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestListEvents(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	ids := createMembers(t, clients.members, "Alice")
	first := createEvent(t, clients.events, "2023-12-31", nil, ids["Alice"])
	second := createEvent(t, clients.events, "2024-01-01", nil, ids["Alice"])
	third := createEvent(t, clients.events, "2024-07-15", nil, ids["Alice"])

	all, err := clients.events.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	var got []string
	for _, e := range all.Msg.Events {
		got = append(got, e.Id)
	}
	want := []string{third.Id, second.Id, first.Id}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected newest first %v, got %v", want, got)
	}

	year, err := clients.events.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{Year: 2024}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(year.Msg.Events) != 2 {
		t.Errorf("expected 2 events in 2024, got %d", len(year.Msg.Events))
	}
	for _, e := range year.Msg.Events {
		if !strings.HasPrefix(e.Date, "2024-") {
			t.Errorf("unexpected event date %s in 2024 listing", e.Date)
		}
	}
}

func TestDeleteEvent(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	ids := createMembers(t, clients.members, "Alice")
	event := createEvent(t, clients.events, "2024-06-01", nil, ids["Alice"])

	if _, err := clients.events.DeleteEvent(ctx, connect.NewRequest(&api.DeleteEventRequest{EventId: event.Id})); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	list, err := clients.events.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{}))
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(list.Msg.Events) != 0 {
		t.Errorf("expected event to be deleted, got %d events", len(list.Msg.Events))
	}

	_, err = clients.events.DeleteEvent(ctx, connect.NewRequest(&api.DeleteEventRequest{EventId: event.Id}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestSuggestPoints(t *testing.T) {
	clients, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name          string
		count         int32
		manual        *int32
		wantSuggested int32
		wantPoints    int32
	}{
		{name: "solo", count: 1, wantSuggested: 0, wantPoints: 0},
		{name: "small group", count: 4, wantSuggested: 1, wantPoints: 1},
		{name: "big group", count: 16, wantSuggested: 10, wantPoints: 10},
		{name: "manual override", count: 4, manual: int32Ptr(12), wantSuggested: 1, wantPoints: 12},
		{name: "manual clamped", count: 4, manual: int32Ptr(99), wantSuggested: 1, wantPoints: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := clients.events.SuggestPoints(context.Background(), connect.NewRequest(&api.SuggestPointsRequest{
				AttendeeCount: tt.count,
				ManualPoints:  tt.manual,
			}))
			if err != nil {
				t.Fatalf("SuggestPoints failed: %v", err)
			}
			if resp.Msg.Suggested != tt.wantSuggested {
				t.Errorf("expected suggested %d, got %d", tt.wantSuggested, resp.Msg.Suggested)
			}
			if resp.Msg.Points != tt.wantPoints {
				t.Errorf("expected points %d, got %d", tt.wantPoints, resp.Msg.Points)
			}
		})
	}

	_, err := clients.events.SuggestPoints(context.Background(), connect.NewRequest(&api.SuggestPointsRequest{AttendeeCount: -1}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
