// Package api defines the request and response messages of the mealpoints
// RPC services. Field names follow the JSON wire format.
package api

// Member is a roster entry.
type Member struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"`
}

// Event is a recorded dinner.
type Event struct {
	Id          string   `json:"id"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Points      int32    `json:"points"`
	AttendeeIds []string `json:"attendees"`
	IpAddress   string   `json:"ipAddress,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
}

// Standing is one ranked leaderboard row.
type Standing struct {
	Rank        int32  `json:"rank"`
	MemberId    string `json:"memberId"`
	Name        string `json:"name"`
	TotalPoints int32  `json:"totalPoints"`
	EventCount  int32  `json:"eventCount"`
}

type ListMembersRequest struct {
	// ActiveOnly drops deleted members from the result.
	ActiveOnly bool `json:"activeOnly,omitempty"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type CreateMemberRequest struct {
	Name string `json:"name"`
}

type CreateMemberResponse struct {
	Member *Member `json:"member"`
}

type CreateMembersRequest struct {
	Names []string `json:"names"`
}

type CreateMembersResponse struct {
	// Members is the full roster after the insert.
	Members []*Member `json:"members"`
}

type DeleteMemberRequest struct {
	MemberId string `json:"memberId"`
}

type DeleteMemberResponse struct{}

type ListEventsRequest struct {
	// Year restricts the result to events dated in that calendar year. Zero lists all.
	Year int32 `json:"year,omitempty"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type CreateEventRequest struct {
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Description string   `json:"description,omitempty"`
	AttendeeIds []string `json:"attendees"`
	// Points overrides the attendee-count suggestion when set.
	Points *int32 `json:"points,omitempty"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type DeleteEventRequest struct {
	EventId string `json:"eventId"`
}

type DeleteEventResponse struct{}

type SuggestPointsRequest struct {
	AttendeeCount int32  `json:"attendeeCount"`
	ManualPoints  *int32 `json:"manualPoints,omitempty"`
}

type SuggestPointsResponse struct {
	// Suggested is the tier value for the attendee count.
	Suggested int32 `json:"suggested"`
	// Points is the value that would be recorded: the clamped manual value if given.
	Points int32 `json:"points"`
}

type GetLeaderboardRequest struct {
	// Year selects the calendar year. Zero or a year without events falls
	// back to the most recent year.
	Year    int32 `json:"year,omitempty"`
	AllTime bool  `json:"allTime,omitempty"`
	// TopN overrides the configured size of the Top list.
	TopN int32 `json:"topN,omitempty"`
}

type GetLeaderboardResponse struct {
	Years        []int32     `json:"years"`
	SelectedYear int32       `json:"selectedYear"`
	AllTime      bool        `json:"allTime"`
	Standings    []*Standing `json:"standings"`
	Top          []*Standing `json:"top"`
}

type LookupLocationRequest struct {
	Ip string `json:"ip"`
}

type LookupLocationResponse struct {
	Ip       string `json:"ip"`
	Location string `json:"location"`
}

type LookupLocationsRequest struct {
	Ips []string `json:"ips"`
}

type LookupLocationsResponse struct {
	// Locations maps each normalized IP to its location.
	Locations map[string]string `json:"locations"`
}
