package models

import "strings"

// MaxMemberNameLength is the maximum length of a member display name, in runes.
const MaxMemberNameLength = 80

// Member represents a person in the dinner group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name. Names are unique across the roster,
	// including inactive members.
	Name string

	// Active is false once the member has been deleted. Inactive members
	// cannot be selected for new events but still count in historical totals.
	Active bool

	// CreatedAt is the Unix timestamp (milliseconds) when the member was added.
	CreatedAt int64
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
