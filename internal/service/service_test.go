package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/storage/sqlite"
	"github.com/mmynk/mealpoints/pkg/api"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
)

// testClients bundles Connect clients talking to one test server.
type testClients struct {
	members apiconnect.MemberServiceClient
	events  apiconnect.EventServiceClient
	stats   apiconnect.StatsServiceClient
	geo     apiconnect.GeoServiceClient
}

// fakeResolver answers every lookup from a fixed table.
type fakeResolver struct {
	locations map[string]string
}

func (f *fakeResolver) Lookup(ctx context.Context, ip string) string {
	if loc, ok := f.locations[ip]; ok {
		return loc
	}
	return "unknown"
}

func (f *fakeResolver) LookupAll(ctx context.Context, ips []string) map[string]string {
	out := make(map[string]string, len(ips))
	for _, ip := range ips {
		out[ip] = f.Lookup(ctx, ip)
	}
	return out
}

// fixedNow is the clock used by the leaderboard in tests.
var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// setupTestServer creates a test server with every service backed by a temp SQLite file.
func setupTestServer(t *testing.T) (testClients, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	statsSvc := NewStatsService(store, 3)
	statsSvc.now = func() time.Time { return fixedNow }
	geoSvc := NewGeoService(&fakeResolver{locations: map[string]string{
		"203.0.113.7": "Japan Tokyo Shibuya",
	}})

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(store)))
	mux.Handle(apiconnect.NewEventServiceHandler(NewEventService(store, nil)))
	mux.Handle(apiconnect.NewStatsServiceHandler(statsSvc))
	mux.Handle(apiconnect.NewGeoServiceHandler(geoSvc))

	server := httptest.NewServer(mux)

	clients := testClients{
		members: apiconnect.NewMemberServiceClient(http.DefaultClient, server.URL),
		events:  apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		stats:   apiconnect.NewStatsServiceClient(http.DefaultClient, server.URL),
		geo:     apiconnect.NewGeoServiceClient(http.DefaultClient, server.URL),
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return clients, cleanup
}

// createMembers adds names to the roster and returns their IDs keyed by name.
func createMembers(t *testing.T, client apiconnect.MemberServiceClient, names ...string) map[string]string {
	t.Helper()
	resp, err := client.CreateMembers(context.Background(), connect.NewRequest(&api.CreateMembersRequest{Names: names}))
	if err != nil {
		t.Fatalf("CreateMembers failed: %v", err)
	}
	ids := make(map[string]string, len(resp.Msg.Members))
	for _, m := range resp.Msg.Members {
		ids[m.Name] = m.Id
	}
	return ids
}

// createEvent records an event and fails the test on error.
func createEvent(t *testing.T, client apiconnect.EventServiceClient, date string, points *int32, attendees ...string) *api.Event {
	t.Helper()
	resp, err := client.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Date:        date,
		Location:    "Test Kitchen",
		AttendeeIds: attendees,
		Points:      points,
	}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return resp.Msg.Event
}

func int32Ptr(v int32) *int32 { return &v }

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %s, got %s (%v)", want, got, err)
	}
}
