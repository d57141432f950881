package service

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmynk/mealpoints/internal/models"
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + v.FieldErrors[field]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// err returns v as an error when any field failed, nil otherwise.
func (v *ValidationError) err() error {
	if v == nil || len(v.FieldErrors) == 0 {
		return nil
	}
	return v
}

// validateMemberName trims name and checks it is 1..MaxMemberNameLength runes.
func validateMemberName(name string) (string, error) {
	name = models.NormalizeName(name)
	verr := &ValidationError{}
	switch {
	case name == "":
		verr.add("name", "must not be empty")
	case utf8.RuneCountInString(name) > models.MaxMemberNameLength:
		verr.add("name", fmt.Sprintf("must be at most %d characters", models.MaxMemberNameLength))
	}
	return name, verr.err()
}

// eventInput is a validated CreateEvent request.
type eventInput struct {
	date        string
	location    string
	description string
	attendees   []string
	points      *int
}

func validateEventInput(date, location, description string, attendees []string, points *int32) (*eventInput, error) {
	verr := &ValidationError{}
	in := &eventInput{
		date:        strings.TrimSpace(date),
		location:    strings.TrimSpace(location),
		description: strings.TrimSpace(description),
	}

	if _, err := time.Parse(models.DateLayout, in.date); err != nil {
		verr.add("date", "must be a calendar date in YYYY-MM-DD form")
	}

	switch {
	case in.location == "":
		verr.add("location", "must not be empty")
	case utf8.RuneCountInString(in.location) > models.MaxLocationLength:
		verr.add("location", fmt.Sprintf("must be at most %d characters", models.MaxLocationLength))
	}

	if utf8.RuneCountInString(in.description) > models.MaxDescriptionLength {
		verr.add("description", fmt.Sprintf("must be at most %d characters", models.MaxDescriptionLength))
	}

	for _, id := range attendees {
		if id = strings.TrimSpace(id); id != "" {
			in.attendees = append(in.attendees, id)
		}
	}
	if len(in.attendees) == 0 {
		verr.add("attendees", "at least one attendee is required")
	}

	if points != nil {
		p := int(*points)
		in.points = &p
	}

	if err := verr.err(); err != nil {
		return nil, err
	}
	return in, nil
}
