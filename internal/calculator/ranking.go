package calculator

import (
	"cmp"
	"slices"
)

// Standing is a ranked leaderboard row.
type Standing struct {
	MemberTotal

	// Rank is the 1-based position in the sorted leaderboard. Tied members
	// get consecutive ranks, not a shared one.
	Rank int
}

// Rank orders totals by points, highest first, and numbers the rows.
//
// Ties on points are broken by name and then by member ID, so the order
// never depends on how the roster happened to be stored. The input slice is
// not modified.
func Rank(totals []MemberTotal) []Standing {
	sorted := slices.Clone(totals)
	slices.SortFunc(sorted, func(a, b MemberTotal) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.MemberID, b.MemberID)
	})

	standings := make([]Standing, len(sorted))
	for i, total := range sorted {
		standings[i] = Standing{MemberTotal: total, Rank: i + 1}
	}
	return standings
}

// TopN returns the first n standings. A non-positive n yields an empty slice;
// n beyond the length returns every standing.
func TopN(standings []Standing, n int) []Standing {
	if n <= 0 {
		return []Standing{}
	}
	return standings[:min(n, len(standings))]
}
