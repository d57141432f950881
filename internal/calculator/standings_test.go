package calculator

import (
	"reflect"
	"testing"
	"time"
)

var roster = []Member{
	{ID: "a", Name: "Alice"},
	{ID: "b", Name: "Bob"},
	{ID: "c", Name: "Charlie"},
}

func TestAggregate(t *testing.T) {
	events := []Event{
		{Date: "2024-05-01", Points: 3, Attendees: []string{"a", "b"}},
		{Date: "2024-06-01", Points: 5, Attendees: []string{"b", "c"}},
		{Date: "2023-12-31", Points: 10, Attendees: []string{"a"}},
	}

	tests := []struct {
		name   string
		window Window
		want   []MemberTotal
	}{
		{
			name:   "single year",
			window: YearWindow(2024),
			want: []MemberTotal{
				{MemberID: "a", Name: "Alice", TotalPoints: 3, EventCount: 1},
				{MemberID: "b", Name: "Bob", TotalPoints: 8, EventCount: 2},
				{MemberID: "c", Name: "Charlie", TotalPoints: 5, EventCount: 1},
			},
		},
		{
			name:   "previous year only",
			window: YearWindow(2023),
			want: []MemberTotal{
				{MemberID: "a", Name: "Alice", TotalPoints: 10, EventCount: 1},
				{MemberID: "b", Name: "Bob"},
				{MemberID: "c", Name: "Charlie"},
			},
		},
		{
			name:   "all time",
			window: AllTimeWindow(),
			want: []MemberTotal{
				{MemberID: "a", Name: "Alice", TotalPoints: 13, EventCount: 2},
				{MemberID: "b", Name: "Bob", TotalPoints: 8, EventCount: 2},
				{MemberID: "c", Name: "Charlie", TotalPoints: 5, EventCount: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(roster, events, tt.window)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregate_EmptyWindowKeepsEveryMember(t *testing.T) {
	got := Aggregate(roster, nil, YearWindow(2024))
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for _, row := range got {
		if row.TotalPoints != 0 || row.EventCount != 0 {
			t.Errorf("%s: expected zero totals, got %+v", row.Name, row)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	events := []Event{
		{Date: "2024-05-01", Points: 3, Attendees: []string{"a", "b"}},
		{Date: "2024-06-01", Points: 5, Attendees: []string{"b", "c"}},
	}

	first := Aggregate(roster, events, YearWindow(2024))
	second := Aggregate(roster, events, YearWindow(2024))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run differs: %+v vs %+v", first, second)
	}
}

func TestAggregate_YearBoundary(t *testing.T) {
	events := []Event{{Date: "2023-12-31", Points: 4, Attendees: []string{"a"}}}

	if got := Aggregate(roster, events, YearWindow(2023))[0].TotalPoints; got != 4 {
		t.Errorf("2023 total = %d, want 4", got)
	}
	if got := Aggregate(roster, events, YearWindow(2024))[0].TotalPoints; got != 0 {
		t.Errorf("2024 total = %d, want 0", got)
	}
}

func TestAggregate_IgnoresUnknownAndDuplicateAttendees(t *testing.T) {
	events := []Event{
		{Date: "2024-01-10", Points: 2, Attendees: []string{"a", "a", "ghost"}},
		{Date: "not-a-date", Points: 9, Attendees: []string{"a"}},
	}

	got := Aggregate(roster, events, AllTimeWindow())
	if got[0].TotalPoints != 2 || got[0].EventCount != 1 {
		t.Errorf("Alice = %+v, want 2 points over 1 event", got[0])
	}
}

func TestAvailableYears(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty falls back to current year", func(t *testing.T) {
		got := AvailableYears(nil, now)
		if !reflect.DeepEqual(got, []int{2026}) {
			t.Errorf("AvailableYears(nil) = %v, want [2026]", got)
		}
	})

	t.Run("distinct years descending", func(t *testing.T) {
		events := []Event{
			{Date: "2023-02-01"},
			{Date: "2025-07-04"},
			{Date: "2023-11-30"},
			{Date: "2024-01-01"},
		}
		got := AvailableYears(events, now)
		if !reflect.DeepEqual(got, []int{2025, 2024, 2023}) {
			t.Errorf("AvailableYears() = %v, want [2025 2024 2023]", got)
		}
	})
}

func TestSelectYear(t *testing.T) {
	years := []int{2025, 2024, 2023}

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"present year kept", 2024, 2024},
		{"missing year falls back to latest", 2019, 2025},
		{"zero falls back to latest", 0, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectYear(years, tt.requested); got != tt.want {
				t.Errorf("SelectYear(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}
