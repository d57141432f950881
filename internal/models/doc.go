// Package models defines the core domain models for the meal point ledger.
//
// # Models
//
//   - Member: a person in the dinner group who can attend events and earn points
//   - Event: a single dated meal with a uniform per-attendee point value
//
// # Design Principles
//
// 1. **History is permanent**: members are never removed, only deactivated, so every
// attendee ID stored on a past event keeps resolving to a member record.
// 2. **Events are immutable**: an event and its attendee list are written together and
// can only be deleted together. There is no edit operation.
// 3. **Avoid circular references**: events reference members by ID string, never by pointer.
// 4. **Dates are calendar dates**: Event.Date is a "YYYY-MM-DD" string with no time zone,
// so year bucketing never shifts across midnight boundaries.
package models
