package models

// Length limits carried over from the event submission form.
const (
	MaxLocationLength    = 200
	MaxDescriptionLength = 500
)

// DateLayout is the layout of Event.Date.
const DateLayout = "2006-01-02"

// Event represents a dinner that a set of members attended.
// Every attendee is credited the same Points value.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Date is the calendar date of the dinner in "YYYY-MM-DD" form.
	// Aggregation by year always uses this field, never CreatedAt.
	Date string

	// Location is where the dinner took place.
	Location string

	// Description is optional free text.
	Description string

	// Points is the value credited to each attendee, between 0 and 20.
	Points int

	// Attendees is the list of member IDs present at the dinner.
	// Never empty, no duplicates.
	Attendees []string

	// IPAddress is the address the event was submitted from, if known.
	IPAddress string

	// CreatedAt is the Unix timestamp (milliseconds) when the event was recorded.
	CreatedAt int64
}

