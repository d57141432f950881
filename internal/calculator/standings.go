// Package calculator implements the point rules of the meal ledger: the
// attendee-count tiers, per-member aggregation over a year, and leaderboard
// ranking. Everything here is pure computation over data the caller has
// already loaded; nothing blocks and nothing is retained between calls.
package calculator

import (
	"slices"
	"time"
)

// Member is the minimal roster information needed for aggregation.
type Member struct {
	ID   string
	Name string
}

// Event is the minimal event information needed for aggregation.
type Event struct {
	Date      string // "YYYY-MM-DD"
	Points    int
	Attendees []string
}

// MemberTotal is one member's aggregate over a window.
type MemberTotal struct {
	MemberID    string
	Name        string
	TotalPoints int
	EventCount  int
}

// Window selects the events that contribute to an aggregation: either a
// single calendar year or all time.
type Window struct {
	Year    int
	AllTime bool
}

// YearWindow returns a window covering one calendar year.
func YearWindow(year int) Window {
	return Window{Year: year}
}

// AllTimeWindow returns a window covering every event.
func AllTimeWindow() Window {
	return Window{AllTime: true}
}

// Contains reports whether an event dated date falls inside the window.
// Year matching compares the date's own calendar year as an integer; no
// time zone conversion takes place.
func (w Window) Contains(date string) bool {
	year, ok := EventYear(date)
	if !ok {
		return false
	}
	return w.AllTime || year == w.Year
}

// EventYear extracts the calendar year from a "YYYY-MM-DD" date.
func EventYear(date string) (int, bool) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// Aggregate computes each member's total points and attendance count over
// the events in window.
//
// The result has exactly one row per member, in roster order, including
// members with no matching events. An attendee listed twice on the same
// event is credited once.
func Aggregate(members []Member, events []Event, window Window) []MemberTotal {
	totals := make([]MemberTotal, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		totals[i] = MemberTotal{MemberID: m.ID, Name: m.Name}
		index[m.ID] = i
	}

	// lastSeen[i] holds the 1-based position of the last event credited to
	// member i, which filters duplicate attendee entries within one event.
	lastSeen := make([]int, len(members))
	for e, event := range events {
		if !window.Contains(event.Date) {
			continue
		}
		for _, attendee := range event.Attendees {
			i, ok := index[attendee]
			if !ok || lastSeen[i] == e+1 {
				continue
			}
			lastSeen[i] = e + 1
			totals[i].TotalPoints += event.Points
			totals[i].EventCount++
		}
	}

	return totals
}

// AvailableYears returns the distinct calendar years that have events, most
// recent first. With no dated events it returns just now's year, so a year
// selector always has at least one choice.
func AvailableYears(events []Event, now time.Time) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, event := range events {
		year, ok := EventYear(event.Date)
		if !ok {
			continue
		}
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}

	if len(years) == 0 {
		return []int{now.Year()}
	}

	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// SelectYear returns requested if it appears in years, otherwise the most
// recent available year. years must be ordered as AvailableYears returns them.
func SelectYear(years []int, requested int) int {
	if len(years) == 0 {
		return requested
	}
	if slices.Contains(years, requested) {
		return requested
	}
	return years[0]
}
