package calculator

import "testing"

func TestRank_EndToEnd(t *testing.T) {
	events := []Event{
		{Date: "2024-05-01", Points: 3, Attendees: []string{"a", "b"}},
		{Date: "2024-06-01", Points: 5, Attendees: []string{"b", "c"}},
	}

	standings := Rank(Aggregate(roster, events, YearWindow(2024)))

	want := []struct {
		id     string
		points int
		rank   int
	}{
		{"b", 8, 1},
		{"c", 5, 2},
		{"a", 3, 3},
	}
	if len(standings) != len(want) {
		t.Fatalf("expected %d standings, got %d", len(want), len(standings))
	}
	for i, w := range want {
		got := standings[i]
		if got.MemberID != w.id || got.TotalPoints != w.points || got.Rank != w.rank {
			t.Errorf("position %d = %+v, want id=%s points=%d rank=%d", i, got, w.id, w.points, w.rank)
		}
	}

	top := TopN(standings, 2)
	if len(top) != 2 || top[0].MemberID != "b" || top[1].MemberID != "c" {
		t.Errorf("TopN(2) = %+v, want [b c]", top)
	}
}

func TestRank_TieBreak(t *testing.T) {
	totals := []MemberTotal{
		{MemberID: "3", Name: "Zoe", TotalPoints: 5},
		{MemberID: "2", Name: "Ann", TotalPoints: 5},
		{MemberID: "1", Name: "Ann", TotalPoints: 5},
		{MemberID: "4", Name: "Max", TotalPoints: 7},
	}

	standings := Rank(totals)

	wantOrder := []string{"4", "1", "2", "3"}
	for i, id := range wantOrder {
		if standings[i].MemberID != id {
			t.Errorf("position %d = %s, want %s", i, standings[i].MemberID, id)
		}
		if standings[i].Rank != i+1 {
			t.Errorf("position %d rank = %d, want %d", i, standings[i].Rank, i+1)
		}
	}

	if totals[0].MemberID != "3" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRank_KeepsZeroPointMembers(t *testing.T) {
	standings := Rank(Aggregate(roster, nil, YearWindow(2024)))
	if len(standings) != len(roster) {
		t.Errorf("expected %d standings, got %d", len(roster), len(standings))
	}
}

func TestTopN(t *testing.T) {
	standings := Rank([]MemberTotal{
		{MemberID: "a", TotalPoints: 3},
		{MemberID: "b", TotalPoints: 2},
		{MemberID: "c", TotalPoints: 1},
	})

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{-1, 0},
		{2, 2},
		{5, 3},
	}

	for _, tt := range tests {
		if got := len(TopN(standings, tt.n)); got != tt.want {
			t.Errorf("len(TopN(%d)) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
