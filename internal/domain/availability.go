package domain

import "github.com/google/uuid"

// AvailabilitySlot is one opening window of a track: an inclusive weekday
// range plus an optional time-of-day window. A single-day slot has
// StartDay == EndDay.
//
// OpenTime and CloseTime are "HH:MM" strings; both are empty when the track
// is open all day.
type AvailabilitySlot struct {
	ID        uuid.UUID
	TrackID   uuid.UUID
	StartDay  Weekday
	EndDay    Weekday
	OpenTime  string
	CloseTime string
}

// Covers reports whether day falls inside the slot's inclusive day range.
func (s AvailabilitySlot) Covers(day Weekday) bool {
	return s.StartDay <= day && day <= s.EndDay
}

// Overlaps reports whether the slot's day range intersects [from, to].
func (s AvailabilitySlot) Overlaps(from, to Weekday) bool {
	return s.StartDay <= to && s.EndDay >= from
}
