package calculator

// Bounds for a per-attendee point value.
const (
	MinPoints = 0
	MaxPoints = 20
)

// pointTiers maps inclusive upper bounds on attendee count to the suggested
// points per person. Counts above the last bound get overflowTierPoints.
var pointTiers = []struct {
	maxAttendees int
	points       int
}{
	{maxAttendees: 1, points: 0},
	{maxAttendees: 5, points: 1},
	{maxAttendees: 8, points: 3},
	{maxAttendees: 15, points: 5},
}

const overflowTierPoints = 10

// SuggestPoints returns the suggested points per attendee for a dinner with
// attendeeCount people. Bigger dinners are worth more to each person.
//
//	0-1 → 0, 2-5 → 1, 6-8 → 3, 9-15 → 5, 16+ → 10
func SuggestPoints(attendeeCount int) int {
	for _, tier := range pointTiers {
		if attendeeCount <= tier.maxAttendees {
			return tier.points
		}
	}
	return overflowTierPoints
}

// ClampPoints forces a manually entered value into [MinPoints, MaxPoints].
// Out-of-range input is corrected, never rejected.
func ClampPoints(points int) int {
	return min(max(points, MinPoints), MaxPoints)
}

// ResolvePoints returns the points to record for an event. A manual value,
// when present, wins over the tier suggestion and is clamped.
func ResolvePoints(attendeeCount int, manual *int) int {
	if manual != nil {
		return ClampPoints(*manual)
	}
	return SuggestPoints(attendeeCount)
}
